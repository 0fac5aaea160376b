package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/debounce"
)

// DefaultWatchDebounce coalesces the burst of events editors emit on save.
const DefaultWatchDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watcher)

// WithWatchDebounce overrides the quiet period before a reload.
func WithWatchDebounce(d time.Duration) WatchOption {
	return func(w *watcher) {
		if d >= 0 {
			w.wait = d
		}
	}
}

// WithWatchLogger attaches a logger.
func WithWatchLogger(logger *zap.Logger) WatchOption {
	return func(w *watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithWatchErrorHandler receives reload failures. The previous configuration
// stays in effect.
func WithWatchErrorHandler(fn func(error)) WatchOption {
	return func(w *watcher) {
		w.onError = fn
	}
}

type watcher struct {
	path    string
	wait    time.Duration
	logger  *zap.Logger
	onError func(error)
}

// Watch reloads path whenever it changes and hands every valid configuration
// to onChange. It blocks until ctx is done. The parent directory is watched so
// editors that replace the file on save are followed.
func Watch(ctx context.Context, path string, onChange func(*Config), options ...WatchOption) error {
	if onChange == nil {
		return fmt.Errorf("config: watch: onChange is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	w := &watcher{
		path:   filepath.Clean(abs),
		wait:   DefaultWatchDebounce,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	w.logger = w.logger.Named("config")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return &Error{Path: path, Err: fmt.Errorf("watch: %w", err)}
	}

	reload := debounce.New(w.wait)
	defer reload.Cancel()

	w.logger.Debug("watching config", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			reload.Debounce(func() { w.reload(onChange) })
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *watcher) reload(onChange func(*Config)) {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload rejected", zap.Error(err))
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.logger.Info("config reloaded", zap.String("path", w.path))
	onChange(cfg)
}
