package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: supervisor:9997\nmetrics_addr: :9090\nsweep_interval_sec: 5\ndead_timeout_sec: 30\nworker_call_timeout_sec: 10\nlog_level: debug\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != "supervisor:9997" || cfg.MetricsAddr != ":9090" || cfg.SweepIntervalSec != 5 || cfg.DeadTimeoutSec != 30 || cfg.WorkerCallTimeoutSec != 10 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","metrics_addr":":7071","sweep_interval_sec":2,"dead_timeout_sec":12,"worker_call_timeout_sec":4,"log_level":"warn"}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.MetricsAddr != ":7071" || cfg.SweepIntervalSec != 2 || cfg.DeadTimeoutSec != 12 || cfg.WorkerCallTimeoutSec != 4 || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmetrics_addr=\":8082\"\nsweep_interval_sec=3\ndead_timeout_sec=18\nworker_call_timeout_sec=6\nlog_level=\"error\"\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.MetricsAddr != ":8082" || cfg.SweepIntervalSec != 3 || cfg.DeadTimeoutSec != 18 || cfg.WorkerCallTimeoutSec != 6 || cfg.LogLevel != "error" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{SweepIntervalSec: 5, DeadTimeoutSec: 30, WorkerCallTimeoutSec: 10}
	if cfg.SweepInterval() != 5*time.Second {
		t.Fatalf("SweepInterval() = %v", cfg.SweepInterval())
	}
	if cfg.DeadTimeout() != 30*time.Second {
		t.Fatalf("DeadTimeout() = %v", cfg.DeadTimeout())
	}
	if cfg.WorkerCallTimeout() != 10*time.Second {
		t.Fatalf("WorkerCallTimeout() = %v", cfg.WorkerCallTimeout())
	}
	var zero Config
	if zero.SweepInterval() != 0 || zero.DeadTimeout() != 0 || zero.WorkerCallTimeout() != 0 {
		t.Fatalf("zero config must map to zero durations")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}
