// Package watcher uploads documents dropped into a folder.
//
// Events are debounced per path: a file is handed to the handler once it has
// seen no further writes for the settle delay. A file is handled again only
// if its size or modification time changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexrag/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is handled.
const DefaultSettle = 2 * time.Second

// Handler processes a settled file.
type Handler func(ctx context.Context, path string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the settle delay.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithFilter restricts handled files to those accepted by fn.
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.accept = fn
	}
}

// Watcher watches one directory, non-recursively.
type Watcher struct {
	dir     string
	handler Handler
	accept  func(string) bool
	settle  time.Duration
	now     func() time.Time

	pending map[string]time.Time
	handled map[string]stamp
}

// stamp identifies a version of a file.
type stamp struct {
	size    int64
	modTime time.Time
}

// same reports whether s and o describe the same file version. Times are
// compared as instants so location and monotonic readings are ignored.
func (s stamp) same(o stamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

// New creates a watcher for dir.
func New(dir string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		dir:     dir,
		handler: handler,
		accept:  func(string) bool { return true },
		settle:  DefaultSettle,
		now:     time.Now,
		pending: make(map[string]time.Time),
		handled: make(map[string]stamp),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Handler failures are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.pending[path] = w.now()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handleFsEvent returns the path to schedule for event, if any.
// Only creates and writes of regular, visible, accepted files qualify.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	if !w.accept(event.Name) {
		logger.Debug("Skipping %s: unsupported file type", event.Name)
		return "", false
	}
	return event.Name, true
}

// flush hands every settled path to the handler.
func (w *Watcher) flush(ctx context.Context) {
	now := w.now()
	for path, last := range w.pending {
		if now.Sub(last) < w.settle {
			continue
		}
		delete(w.pending, path)
		w.process(ctx, path)
	}
}

// process runs the handler unless this version of the file was already handled.
func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Cannot stat %s: %v", path, err)
		}
		return
	}

	st := stamp{size: info.Size(), modTime: info.ModTime()}
	if prev, ok := w.handled[path]; ok && prev.same(st) {
		return
	}

	if err := w.handler(ctx, path); err != nil {
		logger.Error(err, "Failed to process %s", filepath.Base(path))
		return
	}
	w.handled[path] = st
}
