// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/open2b/sitepress/internal/fstest"
	"github.com/open2b/sitepress/internal/tracking"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	fsys := fstest.Files{
		"_config.yml": `title: My Site
baseurl: /blog/
target: public
collections:
  - name: posts
    folder: _posts
  - name: books
    folder: _books
templates:
  redirect: _layouts/redirect.html
minVersion: 1.2.0
author: Jane
`,
	}.Fs()
	c, err := Load(fsys, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.Title != "My Site" || c.BaseURL != "/blog" || c.Target != "public" {
		t.Fatalf("unexpected configuration %+v", c)
	}
	if diff := cmp.Diff([]string{"_pages"}, c.PageViews); diff != "" {
		t.Fatalf("unexpected page views (-want +got):\n%s", diff)
	}
	expected := []tracking.Collection{{Name: "posts", Folder: "_posts"}, {Name: "books", Folder: "_books"}}
	if diff := cmp.Diff(expected, c.Collections); diff != "" {
		t.Fatalf("unexpected collections (-want +got):\n%s", diff)
	}
	if c.Templates.Redirect != "_layouts/redirect.html" {
		t.Fatalf("unexpected redirect template %q", c.Templates.Redirect)
	}
	if c.Site["author"] != "Jane" {
		t.Fatalf("expecting author in site, got %v", c.Site["author"])
	}
	if c.File != DefaultFile {
		t.Fatalf("unexpected file %q", c.File)
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(fstest.Files{}.Fs(), "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.Target != "_site" || len(c.PageViews) != 1 || c.PageViews[0] != "_pages" || c.File != "" {
		t.Fatalf("unexpected configuration %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(fstest.Files{}.Fs(), "site.yml")
	if err == nil {
		t.Fatal("expecting an error")
	}
}

func TestLoadInvalidCollection(t *testing.T) {
	fsys := fstest.Files{"_config.yml": "collections:\n  - name: posts\n"}.Fs()
	_, err := Load(fsys, "")
	if err == nil {
		t.Fatal("expecting an error")
	}
}

func TestCheckVersion(t *testing.T) {
	cases := []struct {
		min     string
		version string
		ok      bool
	}{
		{"", "0.1.0", true},
		{"1.2.0", "1.2.0", true},
		{"1.2.0", "v1.10.0", true},
		{"1.2.0", "1.1.9", false},
		{"v2", "1.9.0", false},
		{"1.2.0", "devel", true},
	}
	for _, cas := range cases {
		c := &Config{MinVersion: cas.min}
		err := c.CheckVersion(cas.version)
		if cas.ok && err != nil {
			t.Fatalf("%s >= %s: unexpected error: %s", cas.version, cas.min, err)
		}
		if !cas.ok && err == nil {
			t.Fatalf("%s >= %s: expecting an error", cas.version, cas.min)
		}
	}
	if err := (&Config{MinVersion: "x.y"}).CheckVersion("1.0.0"); err == nil {
		t.Fatal("expecting an error for an invalid minimum version")
	}
}
