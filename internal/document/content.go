// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"bytes"
	"path"
	"strings"

	"github.com/open2b/sitepress/internal/frontmatter"

	"github.com/spf13/afero"
)

// ContentItemMembers are the members of a ContentItem a template can access.
var ContentItemMembers = []string{
	"Collection",
	"Content",
	"FrontMatter",
	"Permalink",
	"Redirects",
	"TargetFile",
	"Title",
}

// ContentItem is a file of a collection.
type ContentItem struct {
	File

	// PageView is the path of the dynamic page view that renders the item,
	// or the empty string if no page view renders it.
	PageView string

	doc       *frontmatter.Document
	conv      Converter
	content   []byte
	extra     frontmatter.Map
	evaluated frontmatter.Map
	permalink frontmatter.ExpandedValue
	redirects []frontmatter.ExpandedValue
}

// NewContentItem reads the named file of fsys as an item of collection.
// conv converts the body to HTML; if nil, the body is used as it is.
func NewContentItem(fsys afero.Fs, name, collection string, conv Converter) (*ContentItem, error) {
	item := &ContentItem{File: newFile(name), conv: conv}
	item.Namespace = collection
	err := item.Refresh(fsys)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Refresh reads again the file, discarding the evaluated front matter.
func (item *ContentItem) Refresh(fsys afero.Fs) error {
	doc, err := item.read(fsys)
	if err != nil {
		return err
	}
	content := doc.Body
	if item.conv != nil {
		var b bytes.Buffer
		err = item.conv(doc.Body, &b)
		if err != nil {
			return &IOError{Path: item.Path, Err: err}
		}
		content = b.Bytes()
	}
	item.doc = doc
	item.content = content
	item.evaluated = nil
	return nil
}

// Collection returns the name of the collection of the item.
func (item *ContentItem) Collection() string {
	return item.Namespace
}

// Content returns the body of the item converted to HTML.
func (item *ContentItem) Content() []byte {
	return item.content
}

// RawFrontMatter returns the front matter as written in the file.
func (item *ContentItem) RawFrontMatter() frontmatter.Map {
	return item.doc.Matter
}

// LineOffset returns the number of lines of the front matter header.
func (item *ContentItem) LineOffset() int {
	return item.doc.LineOffset
}

// Evaluate evaluates the front matter with extra as additional context,
// usually the front matter of the page view that renders the item.
func (item *ContentItem) Evaluate(extra frontmatter.Map) error {
	item.extra = extra
	item.evaluated = nil
	_, err := item.Evaluated()
	return err
}

// Evaluated returns the evaluated front matter. It is evaluated on the first
// call and then cached until the item is refreshed or evaluated again.
func (item *ContentItem) Evaluated() (frontmatter.Map, error) {
	if item.evaluated != nil {
		return item.evaluated, nil
	}
	fm, err := frontmatter.Evaluate(item.doc.Matter, item.context())
	if err != nil {
		return nil, err
	}
	permalink := fm["permalink"]
	if p, _ := frontmatter.Templates(permalink); len(p) == 0 {
		permalink = frontmatter.DefaultPermalink(item.Path)
	}
	canonical, redirects, err := frontmatter.Expand(permalink, fm)
	if err != nil {
		return nil, err
	}
	item.evaluated = fm
	item.permalink = canonical
	item.redirects = redirects
	return fm, nil
}

// context returns the extra keys of the evaluation: "filename", the name
// of the file, "basename", the name without extension, and then the extra
// keys passed to Evaluate.
func (item *ContentItem) context() frontmatter.Map {
	filename := path.Base(item.Path)
	ctx := make(frontmatter.Map, len(item.extra)+2)
	ctx["filename"] = filename
	ctx["basename"] = strings.TrimSuffix(filename, path.Ext(filename))
	for k, v := range item.extra {
		ctx[k] = v
	}
	return ctx
}

// FrontMatter returns the evaluated front matter or, if it cannot be
// evaluated, the raw one.
func (item *ContentItem) FrontMatter() frontmatter.Map {
	fm, err := item.Evaluated()
	if err != nil {
		return item.doc.Matter
	}
	return fm
}

// Permalink returns the canonical permalink.
func (item *ContentItem) Permalink() string {
	if _, err := item.Evaluated(); err != nil {
		return ""
	}
	return item.permalink.Evaluated
}

// Redirects returns the permalinks that redirect to the canonical one.
func (item *ContentItem) Redirects() []string {
	if _, err := item.Evaluated(); err != nil {
		return []string{}
	}
	return expandedStrings(item.redirects)
}

// TargetFile returns the path of the output file.
func (item *ContentItem) TargetFile() string {
	return frontmatter.TargetFile(item.Permalink())
}

// Title returns the title.
func (item *ContentItem) Title() string {
	return title(item.FrontMatter())
}
