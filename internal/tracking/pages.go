// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracking

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/open2b/sitepress/internal/ctxlog"
	"github.com/open2b/sitepress/internal/document"
	"github.com/open2b/sitepress/internal/jail"

	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"
	"github.com/spf13/afero"
)

// templateExtensions are the extensions of the page view files.
var templateExtensions = map[string]bool{
	"atom":        true,
	"css":         true,
	"htm":         true,
	"html":        true,
	"js":          true,
	"json":        true,
	"markdown":    true,
	"md":          true,
	"rss":         true,
	"svg":         true,
	"txt":         true,
	"webmanifest": true,
	"xml":         true,
}

const redirectName = "redirect.html"

// redirectSource is the source of the built-in redirect template.
const redirectSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Redirecting&hellip;</title>
<link rel="canonical" href="{{ this.RedirectTarget() }}">
<meta http-equiv="refresh" content="0; url={{ this.RedirectTarget() }}">
</head>
<body>
<p>Redirecting to <a href="{{ this.RedirectTarget() }}">{{ this.RedirectTarget() }}</a>&hellip;</p>
</body>
</html>
`

// PageOptions are the options of a PageManager.
type PageOptions struct {

	// Folders are the folders of the page views.
	Folders []string

	// Globals declares the globals available to the templates, in addition
	// to "this".
	Globals native.Declarations

	// Vars, if not nil, returns the values of the variables declared in
	// Globals. It is called at the beginning of each compilation.
	Vars func() map[string]interface{}

	// MarkdownConverter converts Markdown to HTML in the templates.
	MarkdownConverter scriggo.Converter

	// RedirectTemplate is the path of the template of the redirect pages.
	// If it is empty, a built-in template is used.
	RedirectTemplate string

	// Write writes the rendered file with the given path, relative to the
	// output folder.
	Write func(ctx context.Context, name string, data []byte) error
}

// PageManager tracks the page views and compiles them.
type PageManager struct {
	*Tracker[*document.PageView]

	collections  *CollectionManager
	options      PageOptions
	buildOptions *scriggo.BuildOptions
	fsys         fs.FS
	vars         map[string]interface{}

	templates map[string]*scriggo.Template
	redirect  *scriggo.Template
	redirects map[string]*document.PageView

	// deps maps a template to the page views that depend on it, and chains
	// maps a page view to its templates.
	deps   map[string]map[string]struct{}
	chains map[string][]string
}

// NewPageManager returns a manager of the page views read from fsys.
// Dynamic page views get their items from collections.
func NewPageManager(fsys afero.Fs, collections *CollectionManager, options PageOptions) *PageManager {
	globals := make(native.Declarations, len(options.Globals)+1)
	for name, v := range options.Globals {
		globals[name] = v
	}
	globals["this"] = (*jail.Object)(nil)
	m := &PageManager{
		collections: collections,
		options:     options,
		buildOptions: &scriggo.BuildOptions{
			Globals:           globals,
			MarkdownConverter: options.MarkdownConverter,
		},
		fsys:      afero.NewIOFS(fsys),
		templates: map[string]*scriggo.Template{},
		redirects: map[string]*document.PageView{},
		deps:      map[string]map[string]struct{}{},
		chains:    map[string][]string{},
	}
	m.Tracker = newTracker(fsys, m.open, m.accept)
	return m
}

// ParsePageViews scans the page view folders.
func (m *PageManager) ParsePageViews(ctx context.Context) error {
	return m.Scan(ctx, m.options.Folders...)
}

// CompileAll compiles all the page views. A page view that cannot be
// compiled does not stop the compilation; all the errors are returned
// joined.
func (m *PageManager) CompileAll(ctx context.Context) error {
	m.loadVars()
	m.redirects = map[string]*document.PageView{}
	var errs []error
	for _, pv := range m.Items() {
		err := m.compilePageView(ctx, pv)
		if err != nil {
			var uc *UndefinedCollectionError
			if errors.As(err, &uc) {
				ctxlog.FromContext(ctx).Warn("page view skipped", "file", pv.Path, "collection", uc.Collection)
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile compiles the named page view.
func (m *PageManager) Compile(ctx context.Context, name string) error {
	pv, err := m.Get(name)
	if err != nil {
		return err
	}
	m.loadVars()
	return m.compilePageView(ctx, pv)
}

// CompileSome compiles the page views that depend on the named template
// and, if the template is a page view, the page view itself. It returns the
// first error.
func (m *PageManager) CompileSome(ctx context.Context, template string) error {
	template = cleanPath(template)
	if template == m.redirectPath() {
		m.redirect = nil
	}
	names := m.Dependents(template)
	if m.Tracker.IsTracked(template) {
		names = append([]string{template}, names...)
	}
	m.loadVars()
	var first error
	for _, name := range names {
		delete(m.templates, name)
		pv, err := m.Get(name)
		if err != nil {
			continue
		}
		if err = m.compilePageView(ctx, pv); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CompileCollection compiles the dynamic page views of the named
// collection.
func (m *PageManager) CompileCollection(ctx context.Context, collection string) error {
	m.loadVars()
	var first error
	for _, pv := range m.Namespace(document.Dynamic.String()) {
		if pv.Collection() != collection {
			continue
		}
		if err := m.compilePageView(ctx, pv); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CompileContentItem compiles only the named content item with the page
// view that renders it. It does nothing if the item is not rendered by a
// dynamic page view of its collection.
func (m *PageManager) CompileContentItem(ctx context.Context, name string) error {
	item, err := m.collections.Get(name)
	if err != nil {
		return err
	}
	if item.PageView == "" {
		return nil
	}
	pv, err := m.Get(item.PageView)
	if err != nil || pv.Kind != document.Dynamic || pv.Collection() != item.Collection() {
		item.PageView = ""
		return nil
	}
	tmpl, err := m.template(pv)
	if err != nil {
		return err
	}
	m.loadVars()
	return m.compileItem(ctx, tmpl, pv, item)
}

// OnFileCreated tracks and compiles a created page view.
func (m *PageManager) OnFileCreated(ctx context.Context, name string) error {
	if !m.Accept(name) {
		return nil
	}
	pv, err := m.Add(ctx, name)
	if err != nil {
		return err
	}
	m.loadVars()
	return m.compilePageView(ctx, pv)
}

// OnFileModified reads again a modified page view or template and compiles
// the page views affected by the change.
func (m *PageManager) OnFileModified(ctx context.Context, name string) error {
	name = cleanPath(name)
	if name == m.redirectPath() {
		m.redirect = nil
	}
	if m.Tracker.IsTracked(name) {
		if _, err := m.Tracker.OnFileModified(ctx, name); err != nil {
			return err
		}
	} else if _, ok := m.deps[name]; !ok {
		return nil
	}
	return m.CompileSome(ctx, name)
}

// OnFileDeleted stops tracking a deleted page view, releasing the content
// items it rendered. If the file is a template, the page views that depend
// on it are compiled again.
func (m *PageManager) OnFileDeleted(ctx context.Context, name string) error {
	name = cleanPath(name)
	if name == m.redirectPath() {
		m.redirect = nil
	}
	if _, ok := m.Tracker.OnFileDeleted(name); ok {
		delete(m.templates, name)
		m.setDependencies(name, nil)
		m.release(name)
		return nil
	}
	if _, ok := m.deps[name]; ok {
		return m.CompileSome(ctx, name)
	}
	return nil
}

// IsTracked reports whether the named file is a page view or a template a
// page view depends on.
func (m *PageManager) IsTracked(name string) bool {
	name = cleanPath(name)
	if m.Tracker.IsTracked(name) || name == m.redirectPath() {
		return true
	}
	_, ok := m.deps[name]
	return ok
}

// Dependents returns, ordered, the page views that depend on the named
// template.
func (m *PageManager) Dependents(template string) []string {
	pvs := m.deps[cleanPath(template)]
	names := make([]string, 0, len(pvs))
	for name := range pvs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns, ordered, the templates the named page view depends
// on.
func (m *PageManager) Dependencies(name string) []string {
	return m.chains[cleanPath(name)]
}

// Redirects returns the redirect page views of the last compilations,
// ordered by permalink.
func (m *PageManager) Redirects() []*document.PageView {
	permalinks := make([]string, 0, len(m.redirects))
	for p := range m.redirects {
		permalinks = append(permalinks, p)
	}
	sort.Strings(permalinks)
	redirects := make([]*document.PageView, len(permalinks))
	for i, p := range permalinks {
		redirects[i] = m.redirects[p]
	}
	return redirects
}

// compilePageView compiles a page view according to its kind.
func (m *PageManager) compilePageView(ctx context.Context, pv *document.PageView) error {
	if pv.Kind != document.Redirect {
		m.release(pv.Path)
		m.removeDependency(pv.Path, m.redirectPath())
	}
	switch pv.Kind {
	case document.Static:
		tmpl, err := m.template(pv)
		if err != nil {
			return err
		}
		err = m.render(ctx, tmpl, pv, jail.New(pv, document.PageViewMembers), pv.TargetFile())
		if err != nil {
			return err
		}
		return m.compileRedirects(ctx, pv.Path, pv.Redirects(), pv.Permalink())
	case document.Dynamic:
		tmpl, err := m.template(pv)
		if err != nil {
			return err
		}
		name := pv.Collection()
		items, ok := m.collections.Collection(name)
		if !ok {
			return &UndefinedCollectionError{Collection: name, PageView: pv.Path}
		}
		var errs []error
		for _, item := range items {
			if err := m.compileItem(ctx, tmpl, pv, item); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	case document.Repeater:
		tmpl, err := m.template(pv)
		if err != nil {
			return err
		}
		defer pv.SetCombination(0)
		permalinks := pv.RepeaterPermalinks()
		for i := range permalinks {
			pv.SetCombination(i)
			err = m.render(ctx, tmpl, pv, jail.New(pv, document.PageViewMembers), pv.TargetFile())
			if err != nil {
				return err
			}
		}
		for _, redirects := range pv.RepeaterRedirects() {
			for i, r := range redirects {
				err = m.compileRedirects(ctx, pv.Path, []string{r.Evaluated}, permalinks[i].Evaluated)
				if err != nil {
					return err
				}
			}
		}
		return nil
	case document.Redirect:
		tmpl, err := m.redirectTemplate()
		if err != nil {
			return err
		}
		m.redirects[pv.Permalink()] = pv
		return m.render(ctx, tmpl, pv, jail.New(pv, document.PageViewMembers), pv.TargetFile())
	}
	return nil
}

// compileItem renders a content item with the template of its dynamic page
// view.
func (m *PageManager) compileItem(ctx context.Context, tmpl *scriggo.Template, pv *document.PageView, item *document.ContentItem) error {
	item.PageView = pv.Path
	err := item.Evaluate(pv.FrontMatter())
	if err != nil {
		return fileError(item.Path, 0, err)
	}
	err = m.render(ctx, tmpl, pv, jail.New(item, document.ContentItemMembers), item.TargetFile())
	if err != nil {
		return err
	}
	return m.compileRedirects(ctx, pv.Path, item.Redirects(), item.Permalink())
}

// compileRedirects compiles a redirect page from each permalink of from to
// the permalink to. The configured redirect template becomes a dependency
// of the page view owner.
func (m *PageManager) compileRedirects(ctx context.Context, owner string, from []string, to string) error {
	if len(from) > 0 {
		m.addDependency(owner, m.redirectPath())
	}
	for _, permalink := range from {
		err := m.compilePageView(ctx, document.NewRedirect(permalink, to))
		if err != nil {
			return err
		}
	}
	return nil
}

// render runs tmpl with this as the current document and writes the result
// to target.
func (m *PageManager) render(ctx context.Context, tmpl *scriggo.Template, pv *document.PageView, this jail.Object, target string) error {
	vars := make(map[string]interface{}, len(m.vars)+1)
	for name, v := range m.vars {
		vars[name] = v
	}
	vars["this"] = this
	var b bytes.Buffer
	err := tmpl.Run(&b, vars, &scriggo.RunOptions{Context: ctx})
	if err != nil {
		offset := 0
		if pv.Kind != document.Redirect {
			offset = pv.LineOffset()
		}
		return fileError(pv.Path, offset, err)
	}
	if m.options.Write == nil {
		return nil
	}
	return m.options.Write(ctx, target, b.Bytes())
}

// template returns the template of a page view, building it if it has not
// been built yet. The files opened building the template become the
// dependencies of the page view.
func (m *PageManager) template(pv *document.PageView) (*scriggo.Template, error) {
	if t, ok := m.templates[pv.Path]; ok {
		return t, nil
	}
	fsys := newTemplateFS(m.fsys, pv.Path, pv.Body())
	t, err := scriggo.BuildTemplate(fsys, pv.Path, m.buildOptions)
	m.setDependencies(pv.Path, fsys.Dependencies())
	if err != nil {
		return nil, fileError(pv.Path, pv.LineOffset(), err)
	}
	m.templates[pv.Path] = t
	return t, nil
}

// redirectTemplate returns the template of the redirect pages.
func (m *PageManager) redirectTemplate() (*scriggo.Template, error) {
	if m.redirect != nil {
		return m.redirect, nil
	}
	var t *scriggo.Template
	var err error
	if name := m.redirectPath(); name != "" {
		t, err = scriggo.BuildTemplate(m.fsys, name, m.buildOptions)
		if err != nil {
			return nil, fileError(name, 0, err)
		}
	} else {
		fsys := scriggo.Files{redirectName: []byte(redirectSource)}
		t, err = scriggo.BuildTemplate(fsys, redirectName, m.buildOptions)
		if err != nil {
			return nil, err
		}
	}
	m.redirect = t
	return t, nil
}

// setDependencies replaces the dependencies of the named page view.
func (m *PageManager) setDependencies(name string, deps []string) {
	for _, dep := range m.chains[name] {
		delete(m.deps[dep], name)
		if len(m.deps[dep]) == 0 {
			delete(m.deps, dep)
		}
	}
	if len(deps) == 0 {
		delete(m.chains, name)
		return
	}
	m.chains[name] = deps
	for _, dep := range deps {
		pvs, ok := m.deps[dep]
		if !ok {
			pvs = map[string]struct{}{}
			m.deps[dep] = pvs
		}
		pvs[name] = struct{}{}
	}
}

// addDependency adds the template dep to the dependencies of the named page
// view. It does nothing if dep is empty.
func (m *PageManager) addDependency(name, dep string) {
	if dep == "" {
		return
	}
	for _, d := range m.chains[name] {
		if d == dep {
			return
		}
	}
	m.chains[name] = append(m.chains[name], dep)
	pvs, ok := m.deps[dep]
	if !ok {
		pvs = map[string]struct{}{}
		m.deps[dep] = pvs
	}
	pvs[name] = struct{}{}
}

// removeDependency removes the template dep from the dependencies of the
// named page view.
func (m *PageManager) removeDependency(name, dep string) {
	chain := m.chains[name]
	for i, d := range chain {
		if d != dep {
			continue
		}
		chain = append(chain[:i:i], chain[i+1:]...)
		if len(chain) == 0 {
			delete(m.chains, name)
		} else {
			m.chains[name] = chain
		}
		delete(m.deps[dep], name)
		if len(m.deps[dep]) == 0 {
			delete(m.deps, dep)
		}
		return
	}
}

// release unbinds the content items rendered by the named page view.
func (m *PageManager) release(name string) {
	for _, items := range m.collections.Collections() {
		for _, item := range items {
			if item.PageView == name {
				item.PageView = ""
			}
		}
	}
}

// redirectPath returns the path of the configured redirect template, or the
// empty string if the built-in template is used.
func (m *PageManager) redirectPath() string {
	if r := m.options.RedirectTemplate; r != "" {
		return cleanPath(r)
	}
	return ""
}

func (m *PageManager) loadVars() {
	if m.options.Vars == nil {
		m.vars = nil
		return
	}
	m.vars = m.options.Vars()
}

func (m *PageManager) open(_ context.Context, name string) (*document.PageView, error) {
	pv, err := document.NewPageView(m.Tracker.fsys, name)
	if err != nil {
		return nil, fileError(name, 0, err)
	}
	return pv, nil
}

// accept reports whether name is a page view file.
func (m *PageManager) accept(name string) bool {
	if !templateExtensions[extension(name)] {
		return false
	}
	for _, folder := range m.options.Folders {
		if key := folderKey(folder); strings.HasPrefix(name, key) {
			return true
		}
	}
	return false
}
