// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package document

import (
	"bytes"
	"errors"
	"testing"

	"github.com/open2b/sitepress/internal/frontmatter"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, data := range files {
		if err := afero.WriteFile(fsys, name, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func TestNewContentItem(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_posts/hello.md": "---\ntitle: Hello World\ndate: 2016-01-01\n---\n# Hello World\n",
	})
	conv := DefaultConverters(NewMarkdown())["md"]
	item, err := NewContentItem(fsys, "_posts/hello.md", "posts", conv)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if item.Collection() != "posts" {
		t.Fatalf("expecting collection %q, got %q", "posts", item.Collection())
	}
	if item.Name() != "hello" || item.Ext != "md" {
		t.Fatalf("unexpected name %q and extension %q", item.Name(), item.Ext)
	}
	if got := string(item.Content()); got != "<h1 id=\"hello-world\">Hello World</h1>\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if item.LineOffset() != 4 {
		t.Fatalf("expecting line offset 4, got %d", item.LineOffset())
	}
	err = item.Evaluate(frontmatter.Map{"permalink": "/blog/%year/%month/%day/%title"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if item.Permalink() != "/blog/2016/01/01/hello-world" {
		t.Fatalf("unexpected permalink %q", item.Permalink())
	}
	if item.TargetFile() != "blog/2016/01/01/hello-world/index.html" {
		t.Fatalf("unexpected target file %q", item.TargetFile())
	}
	if item.Title() != "Hello World" {
		t.Fatalf("unexpected title %q", item.Title())
	}
}

func TestContentItemDefaultPermalink(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_posts/hello.html": "---\ntitle: Hello\n---\n<p>hello</p>\n",
	})
	item, err := NewContentItem(fsys, "_posts/hello.html", "posts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if item.Permalink() != "/hello.html" {
		t.Fatalf("unexpected permalink %q", item.Permalink())
	}
	if string(item.Content()) != "<p>hello</p>\n" {
		t.Fatalf("unexpected content %q", item.Content())
	}
	if diff := cmp.Diff([]string{}, item.Redirects()); diff != "" {
		t.Fatalf("unexpected redirects (-want +got):\n%s", diff)
	}
}

func TestContentItemOwnKeysWin(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_posts/a.md": "---\ntitle: Mine\npermalink: /mine/\n---\nbody\n",
	})
	item, err := NewContentItem(fsys, "_posts/a.md", "posts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	err = item.Evaluate(frontmatter.Map{"title": "Theirs", "permalink": "/theirs/%title", "layout": "post"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if item.Permalink() != "/mine/" || item.Title() != "Mine" {
		t.Fatalf("unexpected permalink %q and title %q", item.Permalink(), item.Title())
	}
	if item.FrontMatter()["layout"] != "post" {
		t.Fatalf("expecting inherited layout, got %v", item.FrontMatter()["layout"])
	}
}

func TestContentItemUndefinedVariable(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_posts/a.md": "---\nlabel: '%missing'\n---\nbody\n",
	})
	item, err := NewContentItem(fsys, "_posts/a.md", "posts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, err = item.Evaluated()
	var e *frontmatter.UndefinedVariableError
	if !errors.As(err, &e) {
		t.Fatalf("expecting *UndefinedVariableError, got %#v", err)
	}
}

func TestIOError(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"empty.md":  "",
		"nobody.md": "---\ntitle: x\n---\n",
		"blanks.md": "\n\n  \n",
	})
	for _, name := range []string{"empty.md", "nobody.md", "blanks.md", "missing.md"} {
		_, err := NewContentItem(fsys, name, "c", nil)
		var e *IOError
		if !errors.As(err, &e) {
			t.Fatalf("%s: expecting *IOError, got %#v", name, err)
		}
		if e.Path != name {
			t.Fatalf("%s: unexpected path %q", name, e.Path)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		fm   frontmatter.Map
		kind Kind
	}{
		{frontmatter.Map{"permalink": "/about/"}, Static},
		{frontmatter.Map{}, Static},
		{frontmatter.Map{"collection": "posts", "permalink": "/blog/%title"}, Dynamic},
		{frontmatter.Map{"permalink": "/%year/", "year": []interface{}{2015, 2016}}, Repeater},
		{frontmatter.Map{"permalink": "/%year/", "year": 2015}, Static},
	}
	for _, cas := range cases {
		if got := Classify(cas.fm); got != cas.kind {
			t.Fatalf("%v: expecting %s, got %s", cas.fm, cas.kind, got)
		}
	}
}

func TestStaticPageView(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_pages/about.html": "---\ntitle: About\npermalink:\n  - /about/\n  - /about-us/\nmenu: false\n---\n<h1>{{ this.Title() }}</h1>\n",
	})
	pv, err := NewPageView(fsys, "_pages/about.html")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pv.Kind != Static {
		t.Fatalf("expecting static, got %s", pv.Kind)
	}
	if pv.Permalink() != "/about/" {
		t.Fatalf("unexpected permalink %q", pv.Permalink())
	}
	if diff := cmp.Diff([]string{"/about-us/"}, pv.Redirects()); diff != "" {
		t.Fatalf("unexpected redirects (-want +got):\n%s", diff)
	}
	if pv.InMenu() {
		t.Fatal("unexpected page in menu")
	}
	if !bytes.Equal(pv.Body(), []byte("<h1>{{ this.Title() }}</h1>\n")) {
		t.Fatalf("unexpected body %q", pv.Body())
	}
	if pv.LineOffset() != 7 {
		t.Fatalf("expecting line offset 7, got %d", pv.LineOffset())
	}
}

func TestDynamicPageView(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_pages/blog.html": "---\ncollection: posts\npermalink: /blog/%title\n---\n{{ this.Content() }}\n",
	})
	pv, err := NewPageView(fsys, "_pages/blog.html")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pv.Kind != Dynamic || pv.Collection() != "posts" {
		t.Fatalf("expecting dynamic page view of posts, got %s of %q", pv.Kind, pv.Collection())
	}
	if pv.Permalink() != "" {
		t.Fatalf("unexpected permalink %q", pv.Permalink())
	}
	if pv.FrontMatter()["permalink"] != "/blog/%title" {
		t.Fatalf("permalink must not be evaluated, got %v", pv.FrontMatter()["permalink"])
	}
}

func TestRepeaterPageView(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_pages/archive.html": "---\npermalink:\n  - /%year/%month/\n  - /archive-%year-%month/\nyear: [2015, 2016]\nmonth: ['01', '02', '03']\n---\n{{ this.Permalink() }}\n",
	})
	pv, err := NewPageView(fsys, "_pages/archive.html")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pv.Kind != Repeater {
		t.Fatalf("expecting repeater, got %s", pv.Kind)
	}
	if pv.Combinations() != 6 {
		t.Fatalf("expecting 6 combinations, got %d", pv.Combinations())
	}
	pv.SetCombination(4)
	if pv.Permalink() != "/2016/02/" {
		t.Fatalf("unexpected permalink %q", pv.Permalink())
	}
	if diff := cmp.Diff([]string{"/archive-2016-02/"}, pv.Redirects()); diff != "" {
		t.Fatalf("unexpected redirects (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(frontmatter.Map{"year": 2016, "month": "02"}, pv.IteratorValues()); diff != "" {
		t.Fatalf("unexpected iterator values (-want +got):\n%s", diff)
	}
	if pv.FrontMatter()["year"] != 2016 {
		t.Fatalf("expecting current year in front matter, got %v", pv.FrontMatter()["year"])
	}
}

func TestPageViewKindChangesOnRefresh(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_pages/p.html": "---\npermalink: /p/\n---\nstatic\n",
	})
	pv, err := NewPageView(fsys, "_pages/p.html")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pv.Kind != Static {
		t.Fatalf("expecting static, got %s", pv.Kind)
	}
	_ = afero.WriteFile(fsys, "_pages/p.html", []byte("---\ncollection: posts\n---\ndynamic\n"), 0644)
	if err = pv.Refresh(fsys); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if pv.Kind != Dynamic {
		t.Fatalf("expecting dynamic, got %s", pv.Kind)
	}
}

func TestNewRedirect(t *testing.T) {
	pv := NewRedirect("/old/", "/new/")
	if pv.Kind != Redirect || pv.Permalink() != "/old/" || pv.RedirectTarget() != "/new/" {
		t.Fatalf("unexpected redirect %s %q -> %q", pv.Kind, pv.Permalink(), pv.RedirectTarget())
	}
	if pv.TargetFile() != "old/index.html" {
		t.Fatalf("unexpected target file %q", pv.TargetFile())
	}
	if pv.InMenu() {
		t.Fatal("unexpected redirect in menu")
	}
}

func TestContentItemFileNames(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"_posts/hello.md": "---\ndate: 2016-01-01\npermalink: /blog/%year/%month/%day/%basename/\nsource: '%filename'\n---\nbody\n",
	})
	item, err := NewContentItem(fsys, "_posts/hello.md", "posts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p := item.Permalink(); p != "/blog/2016/01/01/hello/" {
		t.Fatalf("unexpected permalink %q", p)
	}
	if s := item.FrontMatter()["source"]; s != "hello.md" {
		t.Fatalf("unexpected source %v", s)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Static:   "static",
		Dynamic:  "dynamic",
		Repeater: "repeater",
		Redirect: "redirect",
		Kind(10): "unknown",
	}
	for k, expected := range cases {
		if s := k.String(); s != expected {
			t.Fatalf("expecting %q, got %q", expected, s)
		}
	}
}
