// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jail implements the read-only views of the documents that are
// exposed to the templates.
package jail

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/open2b/scriggo/native"
	"github.com/spf13/cast"
)

// Jailable is implemented by the documents that can be jailed.
type Jailable interface {
	Permalink() string
	Redirects() []string
	FrontMatter() map[string]interface{}
}

// ForbiddenAccessError is returned by Call when the called member is not
// accessible from the templates.
type ForbiddenAccessError struct {
	Type   string
	Member string
}

func (err *ForbiddenAccessError) Error() string {
	return fmt.Sprintf("%s.%s is not accessible", err.Type, err.Member)
}

// Object is a view of a document that exposes only a set of its members.
// The zero value is an empty object.
type Object struct {
	obj      Jailable
	members  map[string]bool
	children []Object
}

// New returns an object that exposes the given members of obj. Members are
// the names of methods of obj without parameters.
func New(obj Jailable, members []string) Object {
	m := make(map[string]bool, len(members))
	for _, name := range members {
		m[name] = true
	}
	return Object{obj: obj, members: m}
}

// WithChildren returns a copy of o with the given children.
func (o Object) WithChildren(children []Object) Object {
	o.children = children
	return o
}

// Has reports whether key is a member or a front matter key of o.
func (o Object) Has(key string) bool {
	if o.obj == nil {
		return false
	}
	if o.members[accessor(key)] {
		return true
	}
	_, ok := o.obj.FrontMatter()[key]
	return ok
}

// Get returns the value of key. If key, with the first letter in upper
// case, is an exposed member, it returns the value returned by the member.
// Otherwise it returns the front matter value of key, or nil if it does not
// exist.
func (o Object) Get(key string) interface{} {
	if o.obj == nil {
		return nil
	}
	if name := accessor(key); o.members[name] {
		if v, err := o.Call(name); err == nil {
			return v
		}
	}
	return o.obj.FrontMatter()[key]
}

// Call calls the named member of the jailed document and returns its first
// result. If the member is not exposed, it returns a *ForbiddenAccessError.
func (o Object) Call(name string) (interface{}, error) {
	if o.obj == nil || !o.members[name] {
		return nil, &ForbiddenAccessError{Type: o.typeName(), Member: name}
	}
	m := reflect.ValueOf(o.obj).MethodByName(name)
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() == 0 {
		return nil, &ForbiddenAccessError{Type: o.typeName(), Member: name}
	}
	out := m.Call(nil)
	if len(out) == 2 {
		if err, ok := out[1].Interface().(error); ok && err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// Permalink returns the canonical permalink.
func (o Object) Permalink() string {
	if o.obj == nil {
		return ""
	}
	return o.obj.Permalink()
}

// Redirects returns the permalinks that redirect to the canonical one.
func (o Object) Redirects() []string {
	if o.obj == nil {
		return []string{}
	}
	return o.obj.Redirects()
}

// Title returns the title.
func (o Object) Title() string {
	return cast.ToString(o.Get("title"))
}

// Content returns the content as HTML. It returns the empty string if the
// document has no content.
func (o Object) Content() native.HTML {
	switch v := o.Get("content").(type) {
	case []byte:
		return native.HTML(v)
	case string:
		return native.HTML(v)
	}
	return ""
}

// FrontMatter returns the front matter.
func (o Object) FrontMatter() map[string]interface{} {
	if o.obj == nil {
		return map[string]interface{}{}
	}
	return o.obj.FrontMatter()
}

// Collection returns the name of the collection of the document.
func (o Object) Collection() string {
	return cast.ToString(o.Get("collection"))
}

// Iterators returns the values of the iterators of a repeater.
func (o Object) Iterators() map[string]interface{} {
	v, err := o.Call("IteratorValues")
	if err != nil {
		return map[string]interface{}{}
	}
	m, _ := v.(map[string]interface{})
	return m
}

// RedirectTarget returns the target of a redirect.
func (o Object) RedirectTarget() string {
	v, err := o.Call("RedirectTarget")
	if err != nil {
		return ""
	}
	return cast.ToString(v)
}

// Children returns the children of o in the menu.
func (o Object) Children() []Object {
	return o.children
}

// HasChildren reports whether o has children in the menu.
func (o Object) HasChildren() bool {
	return len(o.children) > 0
}

func (o Object) typeName() string {
	if o.obj == nil {
		return "jail.Object"
	}
	return reflect.TypeOf(o.obj).String()
}

// accessor returns the member name of key.
func accessor(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// Objects jails each document of docs.
func Objects[T Jailable](docs []T, members []string) []Object {
	objects := make([]Object, len(docs))
	for i, doc := range docs {
		objects[i] = New(doc, members)
	}
	return objects
}
