// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/open2b/sitepress/internal/frontmatter"

	"github.com/open2b/scriggo"
)

// NotFoundError is returned when a file is not tracked.
type NotFoundError struct {
	Path string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("file %q is not tracked", err.Path)
}

// UndefinedCollectionError is returned when a dynamic page view refers to a
// collection that is not defined.
type UndefinedCollectionError struct {
	Collection string
	PageView   string
}

func (err *UndefinedCollectionError) Error() string {
	return fmt.Sprintf("page view %q refers to undefined collection %q", err.PageView, err.Collection)
}

// FileError is an error occurred compiling a file. Line, if not zero, is the
// line in the file, front matter included.
type FileError struct {
	Path string
	Line int
	Err  error
}

func (err *FileError) Error() string {
	var msg string
	switch e := err.Err.(type) {
	case *scriggo.BuildError:
		msg = e.Message()
	case *scriggo.PanicError:
		msg = e.String()
	default:
		msg = err.Err.Error()
	}
	if err.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", err.Path, err.Line, msg)
	}
	return err.Path + ": " + msg
}

func (err *FileError) Unwrap() error {
	return err.Err
}

// fileError wraps err in a *FileError. offset is the number of lines of
// the front matter of the file with the given path, that the template
// engine does not see.
func fileError(path string, offset int, err error) error {
	if err == nil {
		return nil
	}
	var fe *FileError
	if errors.As(err, &fe) {
		return err
	}
	e := &FileError{Path: path, Err: err}
	switch err := err.(type) {
	case *scriggo.BuildError:
		e.Path = strings.TrimPrefix(err.Path(), "/")
		e.Line = err.Position().Line
	case *scriggo.PanicError:
		e.Path = strings.TrimPrefix(err.Path(), "/")
		e.Line = err.Position().Line
	case *frontmatter.ParseError:
		e.Line = err.Line
		return e
	default:
		return e
	}
	if e.Path == path && e.Line > 0 {
		e.Line += offset
	}
	return e
}
