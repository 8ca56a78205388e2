// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sitepress compiles a static web site from a project tree.
//
// A project has content files, grouped in collections, and page views.
// Both start with a YAML front matter:
//
//	---
//	title: Hello World
//	date: 2016-01-01
//	permalink: /blog/%year/%month/%day/%basename/
//	---
//	The body of the post.
//
// A value can reference the other keys with %name. The "date" key adds
// "year", "month" and "day". A content item also has "filename", the name
// of its file, and "basename", the same name without the extension.
//
// A page view is a Scriggo template. A static page view renders a single
// file, a dynamic page view, with a "collection" key, renders each content
// item of the collection, and a repeater page view, whose permalink
// references a front matter key with a list of values, renders a file for
// each combination of the values.
//
// The templates access the current document with the "this" global, the
// site configuration with "site", the collections with "collections", the
// static pages with "pages" and the site menu with "menu".
//
// A Site compiles the whole project with Build, and the files affected by
// a change with Changed:
//
//	cfg, err := sitepress.LoadConfig(src, "")
//	if err != nil {
//		return err
//	}
//	site := sitepress.New(src, out, cfg)
//	err = site.Build(ctx)
package sitepress
