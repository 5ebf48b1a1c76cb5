// Package watch re-runs corpus synchronization when source papers are added
// to or modified in the exam directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danielglinatsis/HSC-AI/internal/layout"
)

// DefaultDebounce is the quiet period after the last event before a sync
// starts. Copying a large PDF produces a burst of write events.
const DefaultDebounce = 2 * time.Second

// SyncFunc runs one synchronization. Errors are logged and do not stop the
// watcher.
type SyncFunc func(ctx context.Context) error

// Watcher triggers a SyncFunc on exam directory changes.
type Watcher struct {
	dir         string
	sync        SyncFunc
	debounce    time.Duration
	initialSync bool
	logger      *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a sync.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialSync runs a sync as soon as the watcher starts.
func WithInitialSync(enabled bool) Option {
	return func(w *Watcher) {
		w.initialSync = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New returns a Watcher for dir.
func New(dir string, sync SyncFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		sync:     sync,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Relevant reports whether event can add a paper to the corpus. Only
// creation and writes of visible source files count: synchronization never
// removes records, so removals and renames away are ignored.
func Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return layout.IsSourceFile(name)
}

// Run watches until ctx is canceled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching exam directory", "dir", w.dir, "debounce", w.debounce)

	if w.initialSync {
		w.runSync(ctx)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			w.logger.Debug("source changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch event overflow, scheduling sync")
				timer.Reset(w.debounce)
				continue
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			w.runSync(ctx)
		}
	}
}

func (w *Watcher) runSync(ctx context.Context) {
	if err := w.sync(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("sync failed", "error", err)
	}
}
