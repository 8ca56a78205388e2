// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fstest provides project fixtures for tests.
package fstest

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/tools/txtar"
)

// Files is a set of files keyed by slash separated path.
type Files map[string]string

// Parse parses a txtar archive. The comment of the archive is ignored.
func Parse(archive string) Files {
	a := txtar.Parse([]byte(archive))
	files := make(Files, len(a.Files))
	for _, f := range a.Files {
		files[f.Name] = string(f.Data)
	}
	return files
}

// Fs returns a memory file system with the files.
func (files Files) Fs() afero.Fs {
	fsys := afero.NewMemMapFs()
	for name, data := range files {
		err := afero.WriteFile(fsys, name, []byte(data), 0644)
		if err != nil {
			panic(err)
		}
	}
	return fsys
}

// ReadAll returns the regular files of fsys.
func ReadAll(fsys afero.Fs) (Files, error) {
	files := Files{}
	err := afero.Walk(fsys, "", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(filepath.ToSlash(path), "/")
		files[name] = string(data)
		return nil
	})
	return files, err
}
