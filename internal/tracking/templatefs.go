// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracking

import (
	"io/fs"
	"sort"

	"github.com/open2b/scriggo"
)

// templateFS is the file system the template of a page view is built from.
// The page view file is served without its front matter and every other
// opened file is recorded as a dependency of the page view.
type templateFS struct {
	fsys fs.FS
	name string
	body scriggo.Files

	opened map[string]bool
}

func newTemplateFS(fsys fs.FS, name string, body []byte) *templateFS {
	return &templateFS{
		fsys:   fsys,
		name:   name,
		body:   scriggo.Files{name: body},
		opened: map[string]bool{},
	}
}

func (t *templateFS) Open(name string) (fs.File, error) {
	if name == t.name {
		return t.body.Open(name)
	}
	t.opened[name] = true
	return t.fsys.Open(name)
}

func (t *templateFS) ReadFile(name string) ([]byte, error) {
	if name == t.name {
		return t.body[name], nil
	}
	t.opened[name] = true
	return fs.ReadFile(t.fsys, name)
}

// Dependencies returns the opened files, in order, except the page view.
func (t *templateFS) Dependencies() []string {
	deps := make([]string, 0, len(t.opened))
	for name := range t.opened {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	return deps
}
