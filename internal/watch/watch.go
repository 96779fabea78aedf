// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch notifies the changes of the files in a directory tree.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the default delay between a change of a file and its
// notification. Changes of the same file within the delay are notified
// once.
const DefaultDelay = 100 * time.Millisecond

// Watcher watches the directories of trees of files.
type Watcher struct {
	watcher *fsnotify.Watcher
	match   func(name string) bool
	skip    func(dir string) bool

	// Delay is the delay between a change and its notification.
	Delay time.Duration

	sync.Mutex
	watched map[string]bool
}

// New returns a new watcher that notifies the changes of the files for
// which match returns true. The directories for which skip returns true are
// not watched. skip can be nil.
func New(match func(name string) bool, skip func(dir string) bool) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if skip == nil {
		skip = func(string) bool { return false }
	}
	w := &Watcher{
		watcher: watcher,
		match:   match,
		skip:    skip,
		Delay:   DefaultDelay,
		watched: map[string]bool{},
	}
	return w, nil
}

// AddTree watches the directory root and its sub-directories.
func (w *Watcher) AddTree(root string) error {
	return w.addTree(root, nil)
}

// addTree is like AddTree but also calls found, if not nil, with the names
// of the matching files in the tree.
func (w *Watcher) addTree(root string, found func(name string)) error {
	return filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if found != nil && w.match(name) {
				found(name)
			}
			return nil
		}
		if name != root && w.skip(name) {
			return filepath.SkipDir
		}
		return w.add(name)
	})
}

func (w *Watcher) add(dir string) error {
	w.Lock()
	defer w.Unlock()
	if !w.watched[dir] {
		err := w.watcher.Add(dir)
		if err != nil {
			return err
		}
		w.watched[dir] = true
	}
	return nil
}

// Watched returns the watched directories, sorted.
func (w *Watcher) Watched() []string {
	w.Lock()
	dirs := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		dirs = append(dirs, dir)
	}
	w.Unlock()
	sort.Strings(dirs)
	return dirs
}

// Run calls changed with the names of the written or created files, sorted,
// until ctx is done. A new directory is watched as soon as it is created,
// and the matching files it already contains are notified as created.
//
// Run returns nil when ctx is done or the watcher is closed, and the first
// error of the watcher, or of watching a new directory, otherwise.
func (w *Watcher) Run(ctx context.Context, changed func(names []string)) error {
	pending := map[string]bool{}
	var fire <-chan time.Time
	queue := func(name string) {
		pending[name] = true
		if fire == nil {
			fire = time.After(w.Delay)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if w.skip(event.Name) {
						continue
					}
					// The directory may have been removed in the meantime.
					err := w.addTree(event.Name, queue)
					if err != nil && !errors.Is(err, fs.ErrNotExist) {
						return err
					}
					continue
				}
			}
			if w.match(event.Name) {
				queue(event.Name)
			}
		case <-fire:
			fire = nil
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
				delete(pending, name)
			}
			sort.Strings(names)
			changed(names)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
