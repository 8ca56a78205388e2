// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sitepress

import (
	"github.com/open2b/sitepress/internal/document"
	"github.com/open2b/sitepress/internal/frontmatter"
	"github.com/open2b/sitepress/internal/jail"
	"github.com/open2b/sitepress/internal/tracking"
)

type (
	// ParseError is returned when a front matter cannot be parsed or
	// evaluated.
	ParseError = frontmatter.ParseError

	// UndefinedVariableError is returned when a front matter value
	// references an undefined variable.
	UndefinedVariableError = frontmatter.UndefinedVariableError

	// UndefinedCollectionError is returned when a dynamic page view
	// references a collection that is not defined.
	UndefinedCollectionError = tracking.UndefinedCollectionError

	// NotFoundError is returned when a file is not tracked.
	NotFoundError = tracking.NotFoundError

	// ForbiddenAccessError is returned when a template accesses a member of a
	// document that is not exposed.
	ForbiddenAccessError = jail.ForbiddenAccessError

	// IOError is returned when a file is missing, is empty or has no body.
	IOError = document.IOError

	// FileError wraps an error occurred in a file with the file path and,
	// if known, the line.
	FileError = tracking.FileError
)
