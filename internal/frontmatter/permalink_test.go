// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		permalink interface{}
		ctx       Map
		raw       string
		evaluated string
	}{
		{"/blog/%title", Map{"title": "Hello World"}, "/blog/Hello World", "/blog/hello-world"},
		{"/blog/%year/%month/%day/%title", Map{"title": "Hello World", "year": "2016", "month": "01", "day": "01"}, "/blog/2016/01/01/Hello World", "/blog/2016/01/01/hello-world"},
		{"/about/", nil, "/about/", "/about/"},
		{"/%lang/café", Map{"lang": "Français"}, "/Français/café", "/francais/café"},
	}
	for _, cas := range cases {
		got, redirects, err := Expand(cas.permalink, cas.ctx)
		if err != nil {
			t.Fatalf("%v: unexpected error: %s", cas.permalink, err)
		}
		if got.Raw != cas.raw {
			t.Fatalf("%v: expecting raw %q, got %q", cas.permalink, cas.raw, got.Raw)
		}
		if got.Evaluated != cas.evaluated {
			t.Fatalf("%v: expecting evaluated %q, got %q", cas.permalink, cas.evaluated, got.Evaluated)
		}
		if len(redirects) > 0 {
			t.Fatalf("%v: unexpected redirects %v", cas.permalink, redirects)
		}
	}
}

func TestExpandWithDateFrontMatter(t *testing.T) {
	fm, err := Evaluate(Map{"permalink": "/blog/%year/%month/%day/%title"}, Map{"title": "Hello World", "date": "2016-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got, _, err := Expand(fm["permalink"], fm)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.Evaluated != "/blog/2016/01/01/hello-world" {
		t.Fatalf("expecting %q, got %q", "/blog/2016/01/01/hello-world", got.Evaluated)
	}
}

func TestExpandRedirects(t *testing.T) {
	permalink := []interface{}{"/canonical/", "/redirect/", "/redirect-me/"}
	canonical, redirects, err := Expand(permalink, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if canonical.Evaluated != "/canonical/" {
		t.Fatalf("expecting %q, got %q", "/canonical/", canonical.Evaluated)
	}
	if file := TargetFile(canonical.Evaluated); file != "canonical/index.html" {
		t.Fatalf("expecting %q, got %q", "canonical/index.html", file)
	}
	var got []string
	for _, r := range redirects {
		got = append(got, r.Evaluated)
	}
	if diff := cmp.Diff([]string{"/redirect/", "/redirect-me/"}, got); diff != "" {
		t.Fatalf("unexpected redirects (-want +got):\n%s", diff)
	}
}

func TestExpandUndefinedVariable(t *testing.T) {
	_, _, err := Expand("/blog/%title", Map{})
	var e *UndefinedVariableError
	if !errors.As(err, &e) {
		t.Fatalf("expecting *UndefinedVariableError, got %#v", err)
	}
}

func TestExpandRepeater(t *testing.T) {
	fm := Map{
		"permalink": []interface{}{"/%year/%tag/", "/old/%tag-%year/"},
		"year":      []interface{}{2015, 2016, 2017},
		"tag":       []interface{}{"Go", "Web Dev", "css", "js"},
	}
	iterators, err := Iterators(fm["permalink"], fm, []string{"permalink", "year", "tag"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(iterators) != 2 || iterators[0].Name != "year" || iterators[1].Name != "tag" {
		t.Fatalf("unexpected iterators %v", iterators)
	}
	permalinks, redirects, err := ExpandRepeater(fm["permalink"], iterators, fm)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(permalinks) != 12 {
		t.Fatalf("expecting 12 permalinks, got %d", len(permalinks))
	}
	if len(redirects) != 1 || len(redirects[0]) != 12 {
		t.Fatalf("expecting 1 redirect set of 12 redirects, got %v", redirects)
	}
	// Row-major: the first iterator varies slowest.
	expected := []string{"/2015/go/", "/2015/web-dev/", "/2015/css/", "/2015/js/", "/2016/go/"}
	for i, e := range expected {
		if permalinks[i].Evaluated != e {
			t.Fatalf("permalink %d: expecting %q, got %q", i, e, permalinks[i].Evaluated)
		}
	}
	if permalinks[1].Raw != "/2015/Web Dev/" {
		t.Fatalf("expecting raw %q, got %q", "/2015/Web Dev/", permalinks[1].Raw)
	}
	if r := redirects[0][5].Evaluated; r != "/old/web-dev-2016/" {
		t.Fatalf("expecting redirect %q, got %q", "/old/web-dev-2016/", r)
	}
	if diff := cmp.Diff(Map{"year": 2016, "tag": "Web Dev"}, permalinks[5].Iterators); diff != "" {
		t.Fatalf("unexpected iterators (-want +got):\n%s", diff)
	}
}

func TestIsRepeater(t *testing.T) {
	fm := Map{"year": []interface{}{1, 2}, "title": "x"}
	if !IsRepeater("/%year/", fm) {
		t.Fatal("expecting a repeater")
	}
	if IsRepeater("/%title/", fm) {
		t.Fatal("unexpected repeater")
	}
}

func TestTargetFile(t *testing.T) {
	cases := map[string]string{
		"/":                 "index.html",
		"/about/":           "about/index.html",
		"/home/about.html":  "home/about.html",
		"/blog/hello-world": "blog/hello-world/index.html",
		"/feed.xml":         "feed.xml",
		"/docs/v1.2":        "docs/v1.2/index.html",
		"/../escape/":       "escape/index.html",
	}
	for permalink, expected := range cases {
		if got := TargetFile(permalink); got != expected {
			t.Fatalf("%s: expecting %q, got %q", permalink, expected, got)
		}
	}
}

func TestDefaultPermalink(t *testing.T) {
	cases := map[string]string{
		"_pages/about.html":      "/about.html",
		"_pages/blog/index.html": "/blog/index.html",
		"_bacon/foo.html":        "/foo.html",
		"dir/foo.html":           "/dir/foo.html",
		"_a/_b/c/_d.html":        "/c/_d.html",
	}
	for name, expected := range cases {
		if got := DefaultPermalink(name); got != expected {
			t.Fatalf("%s: expecting %q, got %q", name, expected, got)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":       "hello-world",
		"Café au lait!":     "cafe-au-lait",
		"  trim  me  ":      "trim-me",
		"foo - bar":         "foo-bar",
		"v1.2_final":        "v1.2_final",
		"C++ & Go":          "c++-go",
		"2016":              "2016",
		"Ünïcödé Ñame":      "unicode-name",
		"already-a-slug":    "already-a-slug",
		"What?! Why/How...": "what-why-how...",
	}
	for s, expected := range cases {
		if got := Slugify(s); got != expected {
			t.Fatalf("%q: expecting %q, got %q", s, expected, got)
		}
	}
}
