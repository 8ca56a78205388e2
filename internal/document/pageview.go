// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"fmt"

	"github.com/open2b/sitepress/internal/frontmatter"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Kind is the kind of a page view.
type Kind int

const (
	Static   Kind = iota // renders one output file
	Dynamic              // renders one output file for each item of a collection
	Repeater             // renders one output file for each iterator combination
	Redirect             // renders a redirect page
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Repeater:
		return "repeater"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// PageViewMembers are the members of a PageView a template can access.
var PageViewMembers = []string{
	"Collection",
	"FrontMatter",
	"IteratorValues",
	"Permalink",
	"RedirectTarget",
	"Redirects",
	"TargetFile",
	"Title",
}

// Classify returns the kind of a page view with the given raw front matter.
func Classify(fm frontmatter.Map) Kind {
	if c, ok := fm["collection"]; ok && c != nil {
		return Dynamic
	}
	if frontmatter.IsRepeater(fm["permalink"], fm) {
		return Repeater
	}
	return Static
}

// PageView is a template that produces one or more output files.
type PageView struct {
	File

	Kind Kind

	doc       *frontmatter.Document
	evaluated frontmatter.Map
	permalink frontmatter.ExpandedValue
	redirects []frontmatter.ExpandedValue

	// Repeater.
	iterators  []frontmatter.Iterator
	permalinks []frontmatter.ExpandedValue
	redirectsN [][]frontmatter.ExpandedValue
	current    int

	// Redirect.
	target string
}

// NewPageView reads the named file of fsys as a page view.
func NewPageView(fsys afero.Fs, name string) (*PageView, error) {
	pv := &PageView{File: newFile(name)}
	err := pv.Refresh(fsys)
	if err != nil {
		return nil, err
	}
	return pv, nil
}

// NewRedirect returns a redirect page view, from the permalink from to the
// URL to.
func NewRedirect(from, to string) *PageView {
	pv := &PageView{
		File: File{Path: from, Ext: "html", Namespace: Redirect.String()},
		Kind: Redirect,
		doc: &frontmatter.Document{
			Matter: frontmatter.Map{"permalink": from, "redirect": to},
			Keys:   []string{"permalink", "redirect"},
		},
		target: to,
	}
	pv.evaluated = pv.doc.Matter
	pv.permalink = frontmatter.ExpandedValue{Raw: from, Evaluated: from}
	return pv
}

// Refresh reads again the file, classifies it and evaluates its front
// matter. The kind of a page view can change on refresh.
func (pv *PageView) Refresh(fsys afero.Fs) error {
	if pv.Kind == Redirect {
		return nil
	}
	doc, err := pv.read(fsys)
	if err != nil {
		return err
	}
	fm, err := frontmatter.Evaluate(doc.Matter, nil)
	if err != nil {
		return err
	}
	pv.doc = doc
	pv.Kind = Classify(doc.Matter)
	pv.Namespace = pv.Kind.String()
	pv.evaluated = fm
	pv.permalink = frontmatter.ExpandedValue{}
	pv.redirects = nil
	pv.iterators = nil
	pv.permalinks = nil
	pv.redirectsN = nil
	pv.current = 0
	switch pv.Kind {
	case Static:
		permalink := fm["permalink"]
		if p, _ := frontmatter.Templates(permalink); len(p) == 0 {
			permalink = frontmatter.DefaultPermalink(pv.Path)
		}
		pv.permalink, pv.redirects, err = frontmatter.Expand(permalink, fm)
	case Repeater:
		pv.iterators, err = frontmatter.Iterators(fm["permalink"], fm, doc.Keys)
		if err != nil {
			return err
		}
		pv.permalinks, pv.redirectsN, err = frontmatter.ExpandRepeater(fm["permalink"], pv.iterators, fm)
		if err == nil && len(pv.permalinks) == 0 {
			err = &frontmatter.ParseError{Msg: "repeater has no iterator values"}
		}
	}
	return err
}

// Body returns the template source, without the front matter.
func (pv *PageView) Body() []byte {
	return pv.doc.Body
}

// LineOffset returns the number of lines of the front matter header.
func (pv *PageView) LineOffset() int {
	return pv.doc.LineOffset
}

// RawFrontMatter returns the front matter as written in the file.
func (pv *PageView) RawFrontMatter() frontmatter.Map {
	return pv.doc.Matter
}

// FrontMatter returns the evaluated front matter. For a repeater, the values
// of the iterators are those of the current combination.
func (pv *PageView) FrontMatter() frontmatter.Map {
	if pv.Kind != Repeater || len(pv.permalinks) == 0 {
		return pv.evaluated
	}
	fm := make(frontmatter.Map, len(pv.evaluated))
	for k, v := range pv.evaluated {
		fm[k] = v
	}
	for k, v := range pv.permalinks[pv.current].Iterators {
		fm[k] = v
	}
	return fm
}

// Collection returns the name of the collection of a dynamic page view.
func (pv *PageView) Collection() string {
	if pv.Kind != Dynamic {
		return ""
	}
	return cast.ToString(pv.evaluated["collection"])
}

// Permalink returns the canonical permalink. For a repeater it is the
// permalink of the current combination, for a dynamic page view it is the
// empty string.
func (pv *PageView) Permalink() string {
	if pv.Kind == Repeater {
		if len(pv.permalinks) == 0 {
			return ""
		}
		return pv.permalinks[pv.current].Evaluated
	}
	return pv.permalink.Evaluated
}

// Redirects returns the permalinks that redirect to the canonical one.
func (pv *PageView) Redirects() []string {
	if pv.Kind == Repeater {
		redirects := make([]string, 0, len(pv.redirectsN))
		for _, r := range pv.redirectsN {
			redirects = append(redirects, r[pv.current].Evaluated)
		}
		return redirects
	}
	return expandedStrings(pv.redirects)
}

// TargetFile returns the path of the output file.
func (pv *PageView) TargetFile() string {
	return frontmatter.TargetFile(pv.Permalink())
}

// Title returns the title.
func (pv *PageView) Title() string {
	return title(pv.evaluated)
}

// InMenu reports whether the page view is part of the site menu.
func (pv *PageView) InMenu() bool {
	if pv.Kind != Static || pv.Permalink() == "" {
		return false
	}
	if v, ok := pv.evaluated["menu"]; ok && v != nil {
		if b, err := cast.ToBoolE(v); err == nil {
			return b
		}
	}
	return true
}

// Iterators returns the iterators of a repeater.
func (pv *PageView) Iterators() []frontmatter.Iterator {
	return pv.iterators
}

// Combinations returns the number of output files of a repeater.
func (pv *PageView) Combinations() int {
	return len(pv.permalinks)
}

// SetCombination sets the current combination of a repeater.
func (pv *PageView) SetCombination(i int) {
	if i < 0 || i >= len(pv.permalinks) {
		panic(fmt.Sprintf("combination %d out of range [0,%d)", i, len(pv.permalinks)))
	}
	pv.current = i
}

// IteratorValues returns the values of the iterators in the current
// combination of a repeater.
func (pv *PageView) IteratorValues() frontmatter.Map {
	if pv.Kind != Repeater || len(pv.permalinks) == 0 {
		return frontmatter.Map{}
	}
	return pv.permalinks[pv.current].Iterators
}

// RepeaterPermalinks returns the permalinks of all the combinations of a
// repeater.
func (pv *PageView) RepeaterPermalinks() []frontmatter.ExpandedValue {
	return pv.permalinks
}

// RepeaterRedirects returns, for each redirect template of a repeater, the
// redirects of all the combinations.
func (pv *PageView) RepeaterRedirects() [][]frontmatter.ExpandedValue {
	return pv.redirectsN
}

// RedirectTarget returns the target URL of a redirect page view.
func (pv *PageView) RedirectTarget() string {
	return pv.target
}
