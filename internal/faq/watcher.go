package faq

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher refreshes a Store as soon as its file changes on disk, so the first
// request after an edit does not pay for the reload. The Store still checks the
// modification time on every access; the watcher is optional and only
// meaningful for stores backed by the OS filesystem.
type Watcher struct {
	watcher   *fsnotify.Watcher
	store     *Store
	target    string
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewWatcher watches the directory holding the store's file. Watching the
// directory keeps working when editors replace the file by rename.
func NewWatcher(store *Store) (*Watcher, error) {
	target, err := filepath.Abs(store.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve faq path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch faq directory: %w", err)
	}

	return &Watcher{
		watcher: fsWatcher,
		store:   store,
		target:  target,
		logger:  store.logger,
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.logger.Debug("faq file changed", "op", event.Op.String())
				w.store.Refresh()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("faq watcher error", "error", err)
		}
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}
