// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter converts the body of a content item to HTML.
type Converter func(src []byte, out io.Writer) error

// Converters maps a file extension, without the dot, to its converter.
// Bodies of files with other extensions are used as they are.
type Converters map[string]Converter

// NewMarkdown returns the Markdown converter used for content bodies and
// Markdown templates.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// DefaultConverters returns the converters for the Markdown extensions.
func DefaultConverters(md goldmark.Markdown) Converters {
	convert := func(src []byte, out io.Writer) error {
		return md.Convert(src, out)
	}
	return Converters{
		"md":       convert,
		"markdown": convert,
		"mkd":      convert,
	}
}
