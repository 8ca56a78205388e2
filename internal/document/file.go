// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package document implements the documents read from a project: content
// items, grouped in collections, and page views, that are the templates
// that produce the output files.
package document

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/open2b/sitepress/internal/frontmatter"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// IOError is returned when a file cannot be read, is empty, or has no body
// after its front matter.
type IOError struct {
	Path string
	Msg  string
	Err  error
}

func (err *IOError) Error() string {
	msg := err.Msg
	if err.Err != nil {
		msg = err.Err.Error()
	}
	return err.Path + ": " + msg
}

func (err *IOError) Unwrap() error {
	return err.Err
}

// File is a file tracked by a manager.
type File struct {
	// Path is the slash separated path of the file relative to the root of
	// the project.
	Path string
	// Ext is the lower case extension of the file, without the dot.
	Ext string
	// Namespace is the collection name of a content item, or the kind of a
	// page view.
	Namespace string
	// Content is the raw content of the file.
	Content []byte
}

// Tracked returns f.
func (f *File) Tracked() *File {
	return f
}

// Name returns the base name of the file without the extension.
func (f *File) Name() string {
	base := path.Base(f.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// read reads the named file and splits it in its front matter and body.
func (f *File) read(fsys afero.Fs) (*frontmatter.Document, error) {
	src, err := afero.ReadFile(fsys, f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &IOError{Path: f.Path, Msg: "file does not exist", Err: err}
		}
		return nil, &IOError{Path: f.Path, Err: err}
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, &IOError{Path: f.Path, Msg: "file is empty"}
	}
	doc, err := frontmatter.Split(src)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(doc.Body)) == 0 {
		return nil, &IOError{Path: f.Path, Msg: "file has no body"}
	}
	f.Content = src
	return doc, nil
}

func newFile(name string) File {
	return File{
		Path: name,
		Ext:  strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")),
	}
}

// title returns the "title" key of fm as a string.
func title(fm frontmatter.Map) string {
	return cast.ToString(fm["title"])
}

func expandedStrings(values []frontmatter.ExpandedValue) []string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = v.Evaluated
	}
	return s
}
