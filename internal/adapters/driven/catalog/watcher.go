package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/logger"
)

// Update is one reload of a watched catalog.
type Update struct {
	Catalog *domain.Catalog
	Err     error
}

// Watcher reloads a catalog file whenever it changes on disk.
type Watcher struct {
	file    *File
	watcher *fsnotify.Watcher
	once    sync.Once
}

// NewWatcher creates a watcher for file.
func NewWatcher(file *File) *Watcher {
	return &Watcher{file: file}
}

// Watch emits a fresh Update after every write or create of the catalog
// file. The directory is watched so editors that replace the file
// are followed. The channel closes when ctx is done or Close is called.
func (w *Watcher) Watch(ctx context.Context) (<-chan Update, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(w.file.Path())
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.watcher = fw

	target := filepath.Clean(w.file.Path())
	updates := make(chan Update, 1)

	go func() {
		defer close(updates)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Debug("Catalog changed: %s", event)
				catalog, err := w.file.Load(ctx)
				select {
				case updates <- Update{Catalog: catalog, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("Catalog watcher error: %v", err)
			}
		}
	}()

	return updates, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}
