package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c360/appcore/errors"
)

// DefaultDebounceDelay is the quiet period after a file change before the
// reload callback fires, absorbing editor write bursts.
const DefaultDebounceDelay = 100 * time.Millisecond

// ReloadFunc receives the freshly loaded configuration after a file change
type ReloadFunc func(cfg *Config)

// Watcher monitors a configuration file and invokes a reload callback with
// the re-parsed configuration whenever it changes. Reload failures are
// logged and skipped; the previous configuration stays in effect.
type Watcher struct {
	path     string
	onReload ReloadFunc
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher for the configuration file at path
func NewWatcher(path string, logger *slog.Logger, onReload ReloadFunc) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
		debounce: DefaultDebounceDelay,
	}
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic rename-based saves keep being observed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return errors.WrapInvalid(errors.ErrAlreadyRegistered, "Watcher", "Start", "already started check")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapTransient(err, "Watcher", "Start", "create fsnotify watcher")
	}
	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		_ = fsWatcher.Close()
		return errors.WrapTransient(err, "Watcher", "Start", "watch config directory")
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.watcher = fsWatcher
	w.cancel = cancel
	w.done = done

	go w.run(ctx, fsWatcher, done)

	w.logger.Debug("Watching configuration file", "path", w.path)
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	watcher, cancel, done := w.watcher, w.cancel, w.done
	w.watcher, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()

	if watcher == nil {
		return
	}
	cancel()
	_ = watcher.Close()
	<-done
}

func (w *Watcher) run(ctx context.Context, fsWatcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err, "path", w.path)
		}
	}
}

// reload re-parses the file and hands the result to the callback
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("Failed to reload configuration, keeping previous", "error", err, "path", w.path)
		return
	}
	w.logger.Info("Configuration reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
