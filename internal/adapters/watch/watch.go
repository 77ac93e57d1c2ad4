// Package watch re-runs a handler whenever a file is saved.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/ptt/pkg/logger"
	"github.com/okian/ptt/pkg/metrics"
)

const defaultDebounce = 300 * time.Millisecond

// Handler is called after the watched file settles.
type Handler func(ctx context.Context, path string)

// Watcher watches one file through its parent directory, so editors that
// save by rename are still seen.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	initial  bool
	logger   logger.Logger
	metrics  *metrics.Manager
}

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithInitialRun calls the handler once before waiting for changes.
func WithInitialRun(enabled bool) Option {
	return func(w *Watcher) { w.initial = enabled }
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics sets the metrics manager that counts reloads.
func WithMetrics(m *metrics.Manager) Option {
	return func(w *Watcher) {
		if m != nil {
			w.metrics = m
		}
	}
}

// New creates a Watcher for path.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: defaultDebounce,
		initial:  true,
		logger:   logger.Discard(),
		metrics:  metrics.Global(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is cancelled. Bursts of write and create events are
// collapsed into one handler call once the file has been quiet for the
// debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info(ctx, "watching for changes", logger.String("path", w.path))

	if w.initial {
		w.handler(ctx, w.path)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.metrics.RecordWatchReload()
			w.logger.Debug(ctx, "file changed", logger.String("path", w.path))
			w.handler(ctx, w.path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(ctx, "watcher error", logger.Error(err))
		}
	}
}
