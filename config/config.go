package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/c360/appcore/errors"
)

// envPrefix for environment variable overrides
const envPrefix = "APPCORE"

// Valid port range for the metrics endpoint
const (
	MinPort = 1
	MaxPort = 65535
)

// Config is the complete framework configuration: identity, component
// definitions, logging, and metrics.
type Config struct {
	Version    string           `yaml:"version"`
	App        AppConfig        `yaml:"app"`
	Components ComponentsConfig `yaml:"components"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// AppConfig identifies the running application
type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment,omitempty"` // "prod", "dev", "test"
}

// ComponentsConfig lists the component definitions the loader resolves into
// components: the app reference, plugin references, and library key → reference
// pairs. References are opaque to the framework; the loader owns their meaning.
type ComponentsConfig struct {
	App       string            `yaml:"app"`
	Plugins   []string          `yaml:"plugins,omitempty"`
	Libraries map[string]string `yaml:"libraries,omitempty"`
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: false, Port: 9090},
	}
}

// Load reads a YAML configuration file, applies environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "parse YAML")
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if val := os.Getenv(envPrefix + "_APP_NAME"); val != "" {
		c.App.Name = val
	}
	if val := os.Getenv(envPrefix + "_APP_ENVIRONMENT"); val != "" {
		c.App.Environment = val
	}
	if val := os.Getenv(envPrefix + "_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv(envPrefix + "_LOG_FORMAT"); val != "" {
		c.Logging.Format = val
	}
	if val := os.Getenv(envPrefix + "_METRICS_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Metrics.Enabled = enabled
		}
	}
	if val := os.Getenv(envPrefix + "_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Metrics.Port = port
		}
	}
}

// Validate checks the configuration for structural problems
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		msg := fmt.Errorf("%w: unknown log level %q", errors.ErrInvalidConfig, c.Logging.Level)
		return errors.WrapInvalid(msg, "config", "Validate", "logging level check")
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		msg := fmt.Errorf("%w: unknown log format %q", errors.ErrInvalidConfig, c.Logging.Format)
		return errors.WrapInvalid(msg, "config", "Validate", "logging format check")
	}

	if c.Metrics.Enabled && (c.Metrics.Port < MinPort || c.Metrics.Port > MaxPort) {
		msg := fmt.Errorf("%w: metrics port %d outside valid range %d-%d",
			errors.ErrInvalidConfig, c.Metrics.Port, MinPort, MaxPort)
		return errors.WrapInvalid(msg, "config", "Validate", "metrics port check")
	}

	for key, ref := range c.Components.Libraries {
		if key == "" || ref == "" {
			msg := fmt.Errorf("%w: library entries need both key and reference", errors.ErrInvalidConfig)
			return errors.WrapInvalid(msg, "config", "Validate", "library definition check")
		}
	}

	return nil
}
