// Package watch re-runs a handler when files in a directory change.
// Events are debounced so an editor's burst of writes is handled once.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/paramframe/internal/logger"
)

// DefaultDebounce is the quiet period before changes are handled.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the changed regular files of one debounce window,
// sorted and deduplicated.
type Handler func(ctx context.Context, paths []string) error

// Watcher watches a single directory, non-recursively.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(dir string, debounce time.Duration, handler Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, handler: handler}
}

// Run watches until ctx is cancelled. Handler errors are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timerC:
			timerC = nil
			paths := w.flush(pending)
			pending = make(map[string]struct{})
			if len(paths) == 0 {
				continue
			}
			if err := w.handler(ctx, paths); err != nil {
				logger.Error("handling changes: %v", err)
			}
		}
	}
}

// flush returns the pending paths that still exist as regular files.
func (w *Watcher) flush(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// relevant reports whether an event may have produced new file content.
func relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write)
}
