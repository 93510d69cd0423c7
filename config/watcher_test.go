package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/appcore/errors"
)

func TestWatcherFiresOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: before\n"), 0o644))

	reloaded := make(chan *Config, 1)
	w := NewWatcher(path, nil, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: after\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "after", cfg.App.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback did not fire")
	}
}

func TestWatcherKeepsPreviousOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: good\n"), 0o644))

	reloaded := make(chan *Config, 4)
	w := NewWatcher(path, nil, func(cfg *Config) { reloaded <- cfg })

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// invalid content is logged and skipped, callback never fires
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: nonsense\n"), 0o644))

	select {
	case cfg := <-reloaded:
		t.Fatalf("callback fired for invalid config: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}

	// a subsequent valid write recovers
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: recovered\n"), 0o644))
	select {
	case cfg := <-reloaded:
		assert.Equal(t, "recovered", cfg.App.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback did not fire after recovery")
	}
}

func TestWatcherStartTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: x\n"), 0o644))

	w := NewWatcher(path, nil, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	err := w.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAlreadyRegistered)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: x\n"), 0o644))

	w := NewWatcher(path, nil, nil)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop() // second stop is a no-op

	// the watcher can be restarted after a stop
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}
