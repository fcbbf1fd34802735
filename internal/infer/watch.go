package infer

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

// Indexer is the slice of the backlog index the watcher needs. Nil is
// allowed; the watcher then only invalidates the cache.
type Indexer interface {
	UpsertPath(path string) error
	RemoveID(id string) error
}

// Watcher invalidates cache entries (and updates the index, when one is
// attached) as the planning tree changes underneath the engine. It is
// best effort: watch errors are logged, never fatal. The cache's mtime
// probing remains the correctness backstop.
type Watcher struct {
	fsw   *fsnotify.Watcher
	cache *Cache
	index Indexer
	done  chan struct{}
}

// NewWatcher starts watching every directory under the resolution root.
func NewWatcher(roots paths.Roots, cache *Cache, index Indexer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addTree(fsw, roots.Resolution); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, cache: cache, index: index, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

// addTree registers dir and every directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return fsw.Add(p)
		}
		return nil
	})
}

// loop drains events until Close.
func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("WARNING: planning tree watcher: %v", err)
		case <-w.done:
			return
		}
	}
}

// handle maps one filesystem event onto cache and index updates. New
// directories are added to the watch so objects created below them are
// seen.
func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addTree(w.fsw, ev.Name); err != nil {
				log.Printf("WARNING: watching new directory: %v", err)
			}
			return
		}
	}

	kind, id, err := paths.PathToID(ev.Name)
	if err != nil {
		return
	}
	w.cache.Invalidate(object.AddPrefix(kind, id))

	if w.index == nil {
		return
	}
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		if err := w.index.RemoveID(id); err != nil {
			log.Printf("WARNING: index remove %s: %v", id, err)
		}
		return
	}
	if err := w.index.UpsertPath(ev.Name); err != nil {
		log.Printf("WARNING: index update %s: %v", id, err)
	}
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
