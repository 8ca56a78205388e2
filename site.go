// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sitepress

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/open2b/sitepress/internal/config"
	"github.com/open2b/sitepress/internal/ctxlog"
	"github.com/open2b/sitepress/internal/document"
	"github.com/open2b/sitepress/internal/jail"
	"github.com/open2b/sitepress/internal/menu"
	"github.com/open2b/sitepress/internal/tracking"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
)

// Config is the configuration of a site.
type Config = config.Config

// LoadConfig reads the configuration of a site from the named file of fsys.
// If name is empty, the default configuration file is read if it exists.
func LoadConfig(fsys afero.Fs, name string) (*Config, error) {
	return config.Load(fsys, name)
}

// Op is an operation on a file of a project.
type Op int

const (
	Create Op = iota // the file has been created
	Write            // the file has been modified
	Remove           // the file has been removed or renamed
)

func (op Op) String() string {
	switch op {
	case Create:
		return "create"
	case Write:
		return "write"
	case Remove:
		return "remove"
	}
	return "unknown"
}

// Site compiles a project read from a source file system to an output file
// system.
type Site struct {
	src    afero.Fs
	out    afero.Fs
	config *Config
	target string
	md     goldmark.Markdown

	collections *tracking.CollectionManager
	pages       *tracking.PageManager
}

// New returns a site that reads the project from src and writes the
// compiled files to out.
func New(src, out afero.Fs, cfg *Config) *Site {
	s := &Site{
		src:    src,
		out:    out,
		config: cfg,
		md:     document.NewMarkdown(),
	}
	if t := path.Clean(filepath.ToSlash(cfg.Target)); t != "." && t != ".." && !path.IsAbs(t) && !strings.HasPrefix(t, "../") {
		s.target = t
	}
	s.collections = tracking.NewCollectionManager(src, cfg.Collections, document.DefaultConverters(s.md))
	s.pages = tracking.NewPageManager(src, s.collections, tracking.PageOptions{
		Folders: cfg.PageViews,
		Globals: globals(cfg.BaseURL),
		Vars:    s.vars,
		MarkdownConverter: func(src []byte, out io.Writer) error {
			return s.md.Convert(src, out)
		},
		RedirectTemplate: cfg.Templates.Redirect,
		Write:            s.write,
	})
	return s
}

// Build compiles the whole project. Files that cannot be compiled do not
// stop the build; all the errors are returned joined.
func (s *Site) Build(ctx context.Context) error {
	var errs []error
	if err := s.collections.Scan(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.pages.ParsePageViews(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.pages.CompileAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.copyAssets(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Changed compiles again the files affected by an operation on the named
// file. name is a slash separated path relative to the project root.
func (s *Site) Changed(ctx context.Context, op Op, name string) error {
	name = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if name == "" || s.inTarget(name) || strings.HasPrefix(path.Base(name), ".") {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("file changed", "file", name, "op", op)
	if name == s.config.File {
		ctxlog.FromContext(ctx).Warn("configuration file changed, restart to apply the changes", "file", name)
		return nil
	}
	switch {
	case s.collections.Accept(name):
		return s.contentChanged(ctx, op, name)
	case s.pages.Accept(name) || s.pages.IsTracked(name):
		switch op {
		case Create:
			return s.pages.OnFileCreated(ctx, name)
		case Write:
			if !s.pages.IsTracked(name) {
				return s.pages.OnFileCreated(ctx, name)
			}
			return s.pages.OnFileModified(ctx, name)
		case Remove:
			return s.pages.OnFileDeleted(ctx, name)
		}
	case s.isAsset(name):
		if op == Remove {
			err := s.out.Remove(name)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		}
		return s.copyAsset(ctx, name)
	}
	return nil
}

// contentChanged handles an operation on a content item. A modified item
// is compiled alone, a created or removed item compiles again the dynamic
// page views of its collection.
func (s *Site) contentChanged(ctx context.Context, op Op, name string) error {
	collection := s.collections.CollectionOf(name)
	switch op {
	case Write:
		if s.collections.IsTracked(name) {
			if _, err := s.collections.OnFileModified(ctx, name); err != nil {
				return err
			}
			return s.pages.CompileContentItem(ctx, name)
		}
		fallthrough
	case Create:
		if _, err := s.collections.OnFileCreated(ctx, name); err != nil {
			return err
		}
	case Remove:
		item, ok := s.collections.OnFileDeleted(name)
		if !ok {
			return nil
		}
		if item.PageView != "" && item.Permalink() != "" {
			err := s.out.Remove(item.TargetFile())
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
	}
	return s.pages.CompileCollection(ctx, collection)
}

// vars returns the values of the site globals.
func (s *Site) vars() map[string]interface{} {
	site := s.config.Site
	if site == nil {
		site = map[string]interface{}{}
	}
	collections := map[string][]jail.Object{}
	for name, items := range s.collections.Collections() {
		collections[name] = jail.Objects(items, document.ContentItemMembers)
	}
	static := s.pages.Namespace(document.Static.String())
	var titled []*document.PageView
	for _, pv := range static {
		if pv.Title() != "" {
			titled = append(titled, pv)
		}
	}
	sort.SliceStable(titled, func(i, j int) bool {
		return titled[i].Title() < titled[j].Title()
	})
	return map[string]interface{}{
		"collections": collections,
		"menu":        menu.Build(static).Jailed(),
		"pages":       jail.Objects(titled, document.PageViewMembers),
		"site":        site,
	}
}

// write writes a compiled file to the output file system.
func (s *Site) write(ctx context.Context, name string, data []byte) error {
	err := s.out.MkdirAll(path.Dir(name), 0755)
	if err != nil {
		return err
	}
	err = afero.WriteFile(s.out, name, data, 0644)
	if err != nil {
		return err
	}
	ctxlog.Notice(ctx, "file written", "file", name)
	return nil
}

// copyAssets copies the asset files to the output file system.
func (s *Site) copyAssets(ctx context.Context) error {
	return afero.Walk(s.src, ".", func(name string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)
		if name == "." {
			return nil
		}
		if info.IsDir() {
			if !s.isAssetDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.isAsset(name) {
			return nil
		}
		return s.copyAsset(ctx, name)
	})
}

func (s *Site) copyAsset(ctx context.Context, name string) error {
	data, err := afero.ReadFile(s.src, name)
	if err != nil {
		return err
	}
	return s.write(ctx, name, data)
}

// isAsset reports whether the named file is an asset, that is a file that
// is copied as is to the output.
func (s *Site) isAsset(name string) bool {
	if name == s.config.File || !s.isAssetDir(name) {
		return false
	}
	return !s.collections.Accept(name) && !s.pages.Accept(name) && !s.pages.IsTracked(name)
}

// isAssetDir reports whether the named path can contain assets. Paths with
// an element starting with an underscore or a dot, and the output folder,
// cannot.
func (s *Site) isAssetDir(name string) bool {
	if s.inTarget(name) {
		return false
	}
	for _, elem := range strings.Split(name, "/") {
		if strings.HasPrefix(elem, "_") || strings.HasPrefix(elem, ".") {
			return false
		}
	}
	return true
}

// inTarget reports whether the named path is in the output folder.
func (s *Site) inTarget(name string) bool {
	return s.target != "" && (name == s.target || strings.HasPrefix(name, s.target+"/"))
}
