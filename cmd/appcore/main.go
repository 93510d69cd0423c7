// Package main implements the entry point for the AppCore runtime.
// AppCore is an inversion-of-control framework composing modular
// applications out of an app component, libraries, and runtime plugins.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/appcore/component"
	"github.com/c360/appcore/config"
	"github.com/c360/appcore/container"
	"github.com/c360/appcore/metric"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "appcore"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := loadConfiguration(cliCfg)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	var metricsRegistry *metric.Registry
	if cfg.Metrics.Enabled {
		metricsRegistry = metric.NewRegistry()
		server := startMetricsServer(cfg.Metrics.Port, metricsRegistry, logger)
		defer stopMetricsServer(server, cliCfg.ShutdownTimeout, logger)
	}

	ctn := container.New(container.Options{Logger: logger, Metrics: metricsRegistry})

	if _, err := ctn.SetApp(newAppComponent(cfg)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cliCfg.Watch {
		watcher := config.NewWatcher(cliCfg.ConfigPath, logger, func(_ *config.Config) {
			logger.Warn("Configuration changed on disk; restart to apply component definitions")
		})
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	logger.Info("Starting", "app", cfg.App.Name, "environment", cfg.App.Environment)
	return ctn.Run(ctx)
}

// loadConfiguration loads the config file or falls back to defaults, then
// applies CLI overrides
func loadConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cliCfg.ConfigPath != "" {
		loaded, err := config.Load(cliCfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cliCfg.LogLevel != "" {
		cfg.Logging.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Logging.Format = cliCfg.LogFormat
	}
	if cfg.App.Name == "" {
		cfg.App.Name = appName
	}
	return cfg, nil
}

// newAppComponent builds the root application component. It carries no
// hooks of its own: loaders and embedders attach real behavior, while the
// bare runtime blocks until a termination signal.
func newAppComponent(cfg *config.Config) *component.Component {
	return component.New(component.Spec{
		Name:        cfg.App.Name,
		Version:     Version,
		Description: "AppCore root application component",
	})
}

func startMetricsServer(port int, registry *metric.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("Metrics server listening", "port", port)
	return server
}

func stopMetricsServer(server *http.Server, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", "error", err)
	}
}
