package main

import (
	"flag"
	"fmt"
	"time"
)

// CLIConfig holds the parsed command-line flags
type CLIConfig struct {
	ConfigPath      string
	Validate        bool
	LogLevel        string
	LogFormat       string
	Watch           bool
	ShutdownTimeout time.Duration
}

// parseFlags defines and parses command-line flags
func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML configuration file")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")
	flag.StringVar(&cfg.LogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", "", "Override log format (json, text)")
	flag.BoolVar(&cfg.Watch, "watch", false, "Watch the configuration file for changes")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	flag.Parse()
	return cfg
}

// validateFlags checks flag combinations
func validateFlags(cfg *CLIConfig) error {
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	if cfg.Watch && cfg.ConfigPath == "" {
		return fmt.Errorf("-watch requires -config")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
