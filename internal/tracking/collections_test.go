// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracking

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/open2b/sitepress/internal/ctxlog"
	"github.com/open2b/sitepress/internal/document"
	"github.com/open2b/sitepress/internal/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestCollectionOf(t *testing.T) {
	cm := NewCollectionManager(fstest.Files{}.Fs(), []Collection{
		{Name: "posts", Folder: "_posts"},
		{Name: "drafts", Folder: "_posts/drafts/"},
		{Name: "docs", Folder: "./_docs"},
	}, nil)
	cases := map[string]string{
		"_posts/a.md":         "posts",
		"_posts/drafts/b.md":  "drafts",
		"_posts/draftsx/c.md": "posts",
		"_docs/intro.md":      "docs",
		"/_docs/intro.md":     "docs",
		"_postsx/d.md":        "",
		"_pages/index.html":   "",
		"_posts":              "",
	}
	for name, expected := range cases {
		if got := cm.CollectionOf(name); got != expected {
			t.Fatalf("%s: expecting collection %q, got %q", name, expected, got)
		}
	}
}

func TestCollectionScan(t *testing.T) {
	fsys := fstest.Parse(`
-- _posts/b.md --
---
title: B
---
b
-- _posts/a.md --
---
title: A
---
a
-- _posts/.hidden.md --
---
title: Hidden
---
hidden
-- _posts/drafts/c.md --
---
title: C
---
c
`).Fs()
	var b bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	cm := NewCollectionManager(fsys, []Collection{
		{Name: "posts", Folder: "_posts"},
		{Name: "drafts", Folder: "_posts/drafts"},
		{Name: "books", Folder: "_books"},
	}, document.DefaultConverters(document.NewMarkdown()))
	if err := cm.Scan(ctx); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var names []string
	for _, item := range cm.Items() {
		names = append(names, item.Path)
	}
	if diff := cmp.Diff([]string{"_posts/a.md", "_posts/b.md", "_posts/drafts/c.md"}, names); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}
	posts, ok := cm.Collection("posts")
	if !ok || len(posts) != 2 || posts[0].Title() != "A" {
		t.Fatalf("unexpected posts %v", posts)
	}
	if books, ok := cm.Collection("books"); !ok || len(books) != 0 {
		t.Fatalf("expecting empty books collection, got %v", books)
	}
	if _, ok := cm.Collection("missing"); ok {
		t.Fatal("unexpected defined collection")
	}
	if c := cm.Collections(); len(c) != 3 || len(c["drafts"]) != 1 {
		t.Fatalf("unexpected collections %v", c)
	}
	if !strings.Contains(b.String(), "folder does not exist") || !strings.Contains(b.String(), "folder=_books") {
		t.Fatalf("expecting a warning for the missing folder, got %q", b.String())
	}
	if !strings.Contains(b.String(), "content item loaded") {
		t.Fatalf("expecting an info message for the loaded items, got %q", b.String())
	}
}

func TestCollectionEvents(t *testing.T) {
	fsys := fstest.Parse(`
-- _posts/a.md --
---
title: A
---
a
`).Fs()
	ctx := context.Background()
	cm := NewCollectionManager(fsys, []Collection{{Name: "posts", Folder: "_posts"}}, nil)
	if err := cm.Scan(ctx); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !cm.IsTracked("_posts/a.md") {
		t.Fatal("expecting a tracked item")
	}
	if _, ok := cm.OnFileDeleted("_posts/a.md"); !ok {
		t.Fatal("expecting a deleted item")
	}
	_, err := cm.Get("_posts/a.md")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Path != "_posts/a.md" {
		t.Fatalf("expecting *NotFoundError, got %#v", err)
	}
	_, err = cm.OnFileCreated(ctx, "_posts/missing.md")
	var ioErr *document.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expecting *document.IOError, got %#v", err)
	}
}

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"a/b":     "a/b",
		"/a/b":    "a/b",
		"./a//b/": "a/b",
		"":        ".",
		"/":       ".",
	}
	for name, expected := range cases {
		if got := cleanPath(name); got != expected {
			t.Fatalf("%q: expecting %q, got %q", name, expected, got)
		}
	}
}
