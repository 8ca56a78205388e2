// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracking

import (
	"context"
	"path"
	"strings"

	"github.com/open2b/sitepress/internal/ctxlog"
	"github.com/open2b/sitepress/internal/document"

	"github.com/armon/go-radix"
	"github.com/spf13/afero"
)

// Collection is the definition of a collection.
type Collection struct {
	Name   string `mapstructure:"name"`
	Folder string `mapstructure:"folder"`
}

// CollectionManager tracks the content items of the collections.
type CollectionManager struct {
	*Tracker[*document.ContentItem]
	collections []Collection
	folders     *radix.Tree
	converters  document.Converters
}

// NewCollectionManager returns a manager for the given collections, whose
// files are read from fsys. converters convert the item bodies.
func NewCollectionManager(fsys afero.Fs, collections []Collection, converters document.Converters) *CollectionManager {
	m := &CollectionManager{
		collections: collections,
		folders:     radix.New(),
		converters:  converters,
	}
	for _, c := range collections {
		m.folders.Insert(folderKey(c.Folder), c.Name)
	}
	m.Tracker = newTracker(fsys, m.open, func(name string) bool {
		return m.CollectionOf(name) != ""
	})
	return m
}

// Scan scans the folders of all the collections.
func (m *CollectionManager) Scan(ctx context.Context) error {
	if len(m.collections) == 0 {
		ctxlog.FromContext(ctx).Debug("no collections defined")
		return nil
	}
	folders := make([]string, len(m.collections))
	for i, c := range m.collections {
		folders[i] = c.Folder
	}
	return m.Tracker.Scan(ctx, folders...)
}

// CollectionOf returns the name of the collection of the named file, that
// is the collection with the longest folder containing the file. It returns
// the empty string if no collection contains the file.
func (m *CollectionManager) CollectionOf(name string) string {
	_, v, ok := m.folders.LongestPrefix(cleanPath(name))
	if !ok {
		return ""
	}
	return v.(string)
}

// Defined reports whether the named collection is defined.
func (m *CollectionManager) Defined(name string) bool {
	for _, c := range m.collections {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Collection returns the items of the named collection ordered by path, and
// a boolean reporting whether the collection is defined.
func (m *CollectionManager) Collection(name string) ([]*document.ContentItem, bool) {
	if !m.Defined(name) {
		return nil, false
	}
	return m.Namespace(name), true
}

// Collections returns the items of all the defined collections.
func (m *CollectionManager) Collections() map[string][]*document.ContentItem {
	collections := make(map[string][]*document.ContentItem, len(m.collections))
	for _, c := range m.collections {
		collections[c.Name] = m.Namespace(c.Name)
	}
	return collections
}

func (m *CollectionManager) open(ctx context.Context, name string) (*document.ContentItem, error) {
	collection := m.CollectionOf(name)
	ext := extension(name)
	conv := m.converters[ext]
	if conv == nil && ext == "rst" {
		ctxlog.FromContext(ctx).Warn("reStructuredText is not supported, the body is used as it is", "file", name)
	}
	item, err := document.NewContentItem(m.fsys, name, collection, conv)
	if err != nil {
		return nil, fileError(name, 0, err)
	}
	ctxlog.FromContext(ctx).Info("content item loaded", "file", name, "collection", collection)
	return item, nil
}

// extension returns the lower case extension of name without the dot.
func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// folderKey returns the radix key of a collection folder.
func folderKey(folder string) string {
	folder = cleanPath(folder)
	if folder == "." {
		return ""
	}
	return folder + "/"
}
