// Package watch triggers a rescan when files under the collection root
// change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the collection must be quiet before a change
// is reported. Copying an album produces a burst of events; one rescan at
// the end is enough.
const DefaultDebounce = 5 * time.Second

// Watcher reports settled changes anywhere under a directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context)
	logger   *slog.Logger
}

// New creates a watcher for root. onChange runs on the watcher's goroutine,
// so a slow callback delays (and coalesces) later notifications.
func New(root string, debounce time.Duration, onChange func(ctx context.Context), logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{root: root, debounce: debounce, onChange: onChange, logger: logger}
}

// Run watches until ctx is canceled. It returns an error only if the
// initial watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.logger.Info("watching collection", "root", w.root, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch
				if err := w.addTree(fw, event.Name); err != nil {
					w.logger.Debug("failed to watch new path", "path", event.Name, "error", err)
				}
			}
			w.logger.Debug("collection changed", "path", event.Name, "op", event.Op.String())
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending {
				pending = false
				w.logger.Info("collection settled, notifying")
				w.onChange(ctx)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// addTree watches path and, when it is a directory, every directory below it
func (w *Watcher) addTree(fw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(p)
	})
}
