// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package menu builds the site menu from the permalinks of the static page
// views.
package menu

import (
	"sort"
	"strings"

	"github.com/open2b/sitepress/internal/document"
	"github.com/open2b/sitepress/internal/jail"
)

// Tree is a level of the menu, keyed by permalink segment.
type Tree map[string]*Node

// Node is a node of the menu. Page is nil if no page in the menu has the
// permalink of the node.
type Node struct {
	Page     *document.PageView
	Children Tree
}

// Build builds the menu of the given page views. Only the static page views
// with a permalink and without "menu: false" are part of the menu.
func Build(pages []*document.PageView) Tree {
	tree := Tree{}
	for _, page := range pages {
		if !page.InMenu() {
			continue
		}
		segments := Segments(page.Permalink())
		level := tree
		for _, s := range segments[:len(segments)-1] {
			n, ok := level[s]
			if !ok {
				n = &Node{}
				level[s] = n
			}
			if n.Children == nil {
				n.Children = Tree{}
			}
			level = n.Children
		}
		last := segments[len(segments)-1]
		if n, ok := level[last]; ok {
			n.Page = page
		} else {
			level[last] = &Node{Page: page}
		}
	}
	return tree
}

// Segments returns the path segments of permalink. The root permalink has
// the only segment ".".
func Segments(permalink string) []string {
	p := strings.Trim(permalink, "/")
	if p == "" {
		return []string{"."}
	}
	return strings.Split(p, "/")
}

// Keys returns the segments of the tree in order.
func (tree Tree) Keys() []string {
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Jailed returns the jailed pages of the tree, ordered by segment, with
// their children. Nodes without a page are hidden together with their
// children.
func (tree Tree) Jailed() []jail.Object {
	var objects []jail.Object
	for _, k := range tree.Keys() {
		n := tree[k]
		if n.Page == nil {
			continue
		}
		o := jail.New(n.Page, document.PageViewMembers).WithChildren(n.Children.Jailed())
		objects = append(objects, o)
	}
	return objects
}
