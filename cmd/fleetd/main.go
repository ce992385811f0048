package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetd/internal/config"
	"fleetd/internal/logx"
	"fleetd/internal/obs"
	"fleetd/internal/registry"
	"fleetd/internal/resource"
	"fleetd/internal/supervisor"
	"fleetd/internal/worker"
)

func main() {
	// Flag defaults are zero values so a config file can fill anything the
	// user did not pass; environment and built-in defaults apply last.
	addr := flag.String("addr", "", "Supervisor cluster address (default $FLEETD_ADDR or 127.0.0.1:9997)")
	metricsAddr := flag.String("metrics-addr", "", "Ops HTTP listen address for /metrics and /healthz (default $FLEETD_METRICS_ADDR or :9090)")
	configPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml); flags override it")
	sweepSec := flag.Int("sweep-interval-sec", 0, "Dead-worker sweep cadence in seconds (0=default)")
	deadSec := flag.Int("dead-timeout-sec", 0, "Silence threshold before a worker is declared dead, in seconds (0=default)")
	callSec := flag.Int("worker-call-timeout-sec", 0, "Per worker RPC timeout in seconds (0=default)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logx.Log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
	}
	cfg = mergeFlags(cfg, *addr, *metricsAddr, *logLevel, *sweepSec, *deadSec, *callSec)
	cfg = applyDefaults(cfg)
	if cfg.LogLevel != "" {
		logx.SetLevel(cfg.LogLevel)
	}

	sup, err := supervisor.New(supervisor.Options{
		Address:       cfg.Addr,
		Dialer:        worker.HTTPDialer(cfg.WorkerCallTimeout()),
		Families:      registry.NewMemStore(),
		SweepInterval: cfg.SweepInterval(),
		DeadTimeout:   cfg.DeadTimeout(),
	})
	if err != nil {
		logx.Log.Fatal().Err(err).Msg("failed to build supervisor")
	}

	if snap, err := resource.Snapshot(); err == nil {
		if mem, ok := snap["memory"]; ok {
			logx.Log.Info().
				Uint64("memory_total", mem.MemoryTotal).
				Uint64("memory_available", mem.MemoryAvailable).
				Msg("local node resources")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	sup.Start(ctx)

	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: obs.NewMux(nil)}
	go func() {
		logx.Log.Info().Str("addr", cfg.Addr).Str("metrics_addr", cfg.MetricsAddr).Msg("fleetd supervisor up")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Log.Fatal().Err(err).Msg("ops server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Log.Warn().Err(err).Msg("graceful shutdown error")
	}
}

// mergeFlags lays passed flag values over the file config. Zero values mean
// the flag was left at its default and the file value stands.
func mergeFlags(cfg config.Config, addr, metricsAddr, logLevel string, sweepSec, deadSec, callSec int) config.Config {
	if addr != "" {
		cfg.Addr = addr
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if sweepSec > 0 {
		cfg.SweepIntervalSec = sweepSec
	}
	if deadSec > 0 {
		cfg.DeadTimeoutSec = deadSec
	}
	if callSec > 0 {
		cfg.WorkerCallTimeoutSec = callSec
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

// applyDefaults fills fields still unset after flag/file merging from the
// environment, then from built-in defaults.
func applyDefaults(cfg config.Config) config.Config {
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("FLEETD_ADDR")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:9997"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = os.Getenv("FLEETD_METRICS_ADDR")
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}
	return cfg
}
