// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/open2b/sitepress"
	"github.com/open2b/sitepress/internal/ctxlog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build the site and build it again when the project changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), opts)
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			w, err := newWatcher(p)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := build(ctx, p); err != nil {
				ctxlog.FromContext(ctx).Error("build failed", "err", err)
			}
			return w.run(ctx, p.site.Changed)
		},
	}
}

// watcher watches the directories of a project.
type watcher struct {
	root    string
	out     string
	watcher *fsnotify.Watcher
}

// newWatcher returns a watcher of the directories of p, except the output
// directory and the hidden directories.
func newWatcher(p *project) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{root: p.dir, out: p.out, watcher: fw}
	if err := w.add(p.dir, nil); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Close closes the watcher.
func (w *watcher) Close() error {
	return w.watcher.Close()
}

// add watches dir and its sub directories. If created is not nil, it is
// called for each file in the directories.
func (w *watcher) add(dir string, created func(name string)) error {
	return filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if w.skip(name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if created != nil {
				created(name)
			}
			return nil
		}
		return w.watcher.Add(name)
	})
}

// skip reports whether the named path must not be watched.
func (w *watcher) skip(name string) bool {
	if name == w.out || strings.HasPrefix(name, w.out+string(filepath.Separator)) {
		return true
	}
	return name != w.root && strings.HasPrefix(filepath.Base(name), ".")
}

// run calls changed for each change in the project until ctx is done.
// Errors returned by changed are logged.
func (w *watcher) run(ctx context.Context, changed func(context.Context, sitepress.Op, string) error) error {
	logger := ctxlog.FromContext(ctx)
	notify := func(op sitepress.Op, name string) {
		rel, err := filepath.Rel(w.root, name)
		if err != nil {
			logger.Warn("cannot resolve the changed file", "file", name, "err", err)
			return
		}
		if err := changed(ctx, op, filepath.ToSlash(rel)); err != nil {
			logger.Error("compilation failed", "err", err)
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
			if w.skip(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					err = w.add(event.Name, func(name string) { notify(sitepress.Create, name) })
					if err != nil {
						logger.Warn("cannot watch directory", "dir", event.Name, "err", err)
					}
					continue
				}
				notify(sitepress.Create, event.Name)
			case event.Has(fsnotify.Write):
				notify(sitepress.Write, event.Name)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				notify(sitepress.Remove, event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}
