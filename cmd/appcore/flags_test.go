package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateFlags(t *testing.T) {
	valid := func() *CLIConfig {
		return &CLIConfig{ShutdownTimeout: 30 * time.Second}
	}

	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr bool
	}{
		{"defaults", func(*CLIConfig) {}, false},
		{"debug level", func(c *CLIConfig) { c.LogLevel = "debug" }, false},
		{"text format", func(c *CLIConfig) { c.LogFormat = "text" }, false},
		{"bad level", func(c *CLIConfig) { c.LogLevel = "verbose" }, true},
		{"bad format", func(c *CLIConfig) { c.LogFormat = "xml" }, true},
		{"watch without config", func(c *CLIConfig) { c.Watch = true }, true},
		{"watch with config", func(c *CLIConfig) { c.Watch = true; c.ConfigPath = "x.yaml" }, false},
		{"zero timeout", func(c *CLIConfig) { c.ShutdownTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateFlags(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	logger := setupLogger("debug", "text")
	assert.NotNil(t, logger)

	// unknown values fall back to defaults rather than failing
	logger = setupLogger("bogus", "bogus")
	assert.NotNil(t, logger)
}
