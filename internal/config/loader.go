package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the supervisor.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	// Addr is the supervisor's own cluster address, as workers would
	// register it in a single-node deployment.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// MetricsAddr is the operational HTTP listener (/metrics, /healthz).
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr"`
	// SweepIntervalSec is the dead-worker sweep cadence in seconds.
	SweepIntervalSec int `json:"sweep_interval_sec" yaml:"sweep_interval_sec" toml:"sweep_interval_sec"`
	// DeadTimeoutSec is how long a worker may stay silent before the
	// sweep declares it dead, in seconds.
	DeadTimeoutSec int `json:"dead_timeout_sec" yaml:"dead_timeout_sec" toml:"dead_timeout_sec"`
	// WorkerCallTimeoutSec bounds a single worker RPC, in seconds.
	WorkerCallTimeoutSec int `json:"worker_call_timeout_sec" yaml:"worker_call_timeout_sec" toml:"worker_call_timeout_sec"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml. A leading '~' in the path is
// expanded to the user's home directory.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

func expandHome(path string) (string, error) {
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// SweepInterval returns the configured sweep cadence, 0 when unset.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// DeadTimeout returns the configured dead-worker threshold, 0 when unset.
func (c Config) DeadTimeout() time.Duration {
	return time.Duration(c.DeadTimeoutSec) * time.Second
}

// WorkerCallTimeout returns the per-RPC timeout, 0 when unset.
func (c Config) WorkerCallTimeout() time.Duration {
	return time.Duration(c.WorkerCallTimeoutSec) * time.Second
}
