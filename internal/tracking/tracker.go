// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracking implements the managers that track the files of a
// project: the collections of content items and the page views, and the
// templates the page views depend on.
package tracking

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/open2b/sitepress/internal/ctxlog"
	"github.com/open2b/sitepress/internal/document"

	"github.com/spf13/afero"
)

// Item is a document tracked by a Tracker.
type Item interface {
	Tracked() *document.File
	Refresh(fsys afero.Fs) error
}

// Tracker tracks the files, read as items of type T, of a set of folders.
type Tracker[T Item] struct {
	fsys   afero.Fs
	open   func(ctx context.Context, name string) (T, error)
	accept func(name string) bool
	items  map[string]T
}

func newTracker[T Item](fsys afero.Fs, open func(context.Context, string) (T, error), accept func(string) bool) *Tracker[T] {
	return &Tracker[T]{
		fsys:   fsys,
		open:   open,
		accept: accept,
		items:  map[string]T{},
	}
}

// Scan walks the given folders and tracks the accepted files. A folder that
// does not exist is skipped with a warning. Files that cannot be read do not
// stop the scan; their errors are returned joined.
func (t *Tracker[T]) Scan(ctx context.Context, folders ...string) error {
	var errs []error
	for _, folder := range folders {
		folder = cleanPath(folder)
		exists, err := afero.DirExists(t.fsys, folder)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !exists {
			ctxlog.FromContext(ctx).Warn("folder does not exist", "folder", folder)
			continue
		}
		err = afero.Walk(t.fsys, folder, func(name string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			name = cleanPath(name)
			base := path.Base(name)
			if info.IsDir() {
				if name != folder && strings.HasPrefix(base, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(base, ".") || !t.accept(name) {
				return nil
			}
			if _, err := t.Add(ctx, name); err != nil {
				errs = append(errs, err)
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add reads and tracks the named file.
func (t *Tracker[T]) Add(ctx context.Context, name string) (T, error) {
	name = cleanPath(name)
	item, err := t.open(ctx, name)
	if err != nil {
		var zero T
		return zero, err
	}
	t.items[name] = item
	return item, nil
}

// Accept reports whether the named file would be tracked by a scan.
func (t *Tracker[T]) Accept(name string) bool {
	name = cleanPath(name)
	return !strings.HasPrefix(path.Base(name), ".") && t.accept(name)
}

// OnFileCreated tracks a created file.
func (t *Tracker[T]) OnFileCreated(ctx context.Context, name string) (T, error) {
	return t.Add(ctx, name)
}

// OnFileModified reads again a tracked file. If the file is not tracked, it
// is tracked as it was created.
func (t *Tracker[T]) OnFileModified(ctx context.Context, name string) (T, error) {
	name = cleanPath(name)
	item, ok := t.items[name]
	if !ok {
		return t.Add(ctx, name)
	}
	err := item.Refresh(t.fsys)
	if err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// OnFileDeleted stops tracking a file. It returns the item and true if the
// file was tracked.
func (t *Tracker[T]) OnFileDeleted(name string) (T, bool) {
	name = cleanPath(name)
	item, ok := t.items[name]
	if ok {
		delete(t.items, name)
	}
	return item, ok
}

// IsTracked reports whether the named file is tracked.
func (t *Tracker[T]) IsTracked(name string) bool {
	_, ok := t.items[cleanPath(name)]
	return ok
}

// Get returns the item of the named file. If the file is not tracked, it
// returns a *NotFoundError.
func (t *Tracker[T]) Get(name string) (T, error) {
	name = cleanPath(name)
	item, ok := t.items[name]
	if !ok {
		return item, &NotFoundError{Path: name}
	}
	return item, nil
}

// Items returns the tracked items ordered by path.
func (t *Tracker[T]) Items() []T {
	return t.filter(func(T) bool { return true })
}

// Namespace returns the tracked items of the given namespace ordered by
// path.
func (t *Tracker[T]) Namespace(ns string) []T {
	return t.filter(func(item T) bool { return item.Tracked().Namespace == ns })
}

func (t *Tracker[T]) filter(keep func(T) bool) []T {
	names := make([]string, 0, len(t.items))
	for name, item := range t.items {
		if keep(item) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	items := make([]T, len(names))
	for i, name := range names {
		items[i] = t.items[name]
	}
	return items
}

// cleanPath returns name as a clean slash separated path relative to the
// root of the project.
func cleanPath(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	if name == "/" {
		return "."
	}
	return name[1:]
}
