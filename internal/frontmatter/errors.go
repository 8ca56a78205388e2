// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"regexp"
	"strconv"
)

// ParseError is returned when a front matter block is malformed or when its
// variables cannot be resolved, as it happens with a reference cycle.
type ParseError struct {
	Line int // line in the file, 0 if unknown.
	Msg  string
	Err  error
}

func (err *ParseError) Error() string {
	msg := err.Msg
	if err.Err != nil {
		if msg == "" {
			msg = err.Err.Error()
		} else {
			msg += ": " + err.Err.Error()
		}
	}
	if err.Line > 0 {
		return "line " + strconv.Itoa(err.Line) + ": " + msg
	}
	return msg
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// UndefinedVariableError is returned when a %name reference has no binding.
type UndefinedVariableError struct {
	Name string
}

func (err *UndefinedVariableError) Error() string {
	return "undefined variable %" + err.Name
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// yamlError converts an error returned by the YAML decoder into a
// *ParseError. The line is shifted by one to count the opening delimiter.
func yamlError(err error) *ParseError {
	e := &ParseError{Msg: "invalid front matter", Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			e.Line = n + 1
		}
	}
	return e
}
