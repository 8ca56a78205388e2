// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// ExpandedValue is a value produced by the expansion of a permalink.
type ExpandedValue struct {
	// Raw is the permalink with the variables replaced with their values.
	Raw string
	// Evaluated is the permalink with the variables replaced with their
	// slugs. It is the form used for paths and redirects.
	Evaluated string
	// Iterators holds, for a repeater, the iterator values of the
	// combination that produced this value.
	Iterators Map
}

// Iterator is a named set of values a repeater iterates on.
type Iterator struct {
	Name   string
	Values []interface{}
}

// Templates returns the permalink templates of permalink, that can be a
// string or a sequence of strings. The first template is the canonical one,
// the others are redirects.
func Templates(permalink interface{}) ([]string, error) {
	switch p := permalink.(type) {
	case nil:
		return nil, nil
	case string:
		if p == "" {
			return nil, nil
		}
		return []string{p}, nil
	}
	templates, err := cast.ToStringSliceE(permalink)
	if err != nil || !isSequence(permalink) {
		return nil, &ParseError{Msg: fmt.Sprintf("permalink must be a string or a sequence of strings, not %T", permalink)}
	}
	return templates, nil
}

// Expand expands permalink with the values in ctx and returns the canonical
// permalink and its redirects.
func Expand(permalink interface{}, ctx Map) (ExpandedValue, []ExpandedValue, error) {
	templates, err := Templates(permalink)
	if err != nil {
		return ExpandedValue{}, nil, err
	}
	if len(templates) == 0 {
		return ExpandedValue{}, nil, errors.New("empty permalink")
	}
	var values []ExpandedValue
	for _, tpl := range templates {
		v, err := expand(tpl, ctx, nil)
		if err != nil {
			return ExpandedValue{}, nil, err
		}
		values = append(values, v)
	}
	return values[0], values[1:], nil
}

// ExpandRepeater expands permalink once for each combination of the values
// of the iterators. It returns the canonical permalinks and, for each
// redirect template, the redirects, aligned by combination index.
//
// Combinations are in row-major order: the first iterator varies slowest
// and the last one fastest.
func ExpandRepeater(permalink interface{}, iterators []Iterator, ctx Map) ([]ExpandedValue, [][]ExpandedValue, error) {
	templates, err := Templates(permalink)
	if err != nil {
		return nil, nil, err
	}
	if len(templates) == 0 {
		return nil, nil, errors.New("empty permalink")
	}
	n := Combinations(iterators)
	permalinks := make([]ExpandedValue, 0, n)
	redirects := make([][]ExpandedValue, len(templates)-1)
	for i := 0; i < n; i++ {
		values := combination(iterators, i)
		for j, tpl := range templates {
			v, err := expand(tpl, ctx, values)
			if err != nil {
				return nil, nil, err
			}
			v.Iterators = values
			if j == 0 {
				permalinks = append(permalinks, v)
			} else {
				redirects[j-1] = append(redirects[j-1], v)
			}
		}
	}
	return permalinks, redirects, nil
}

// Combinations returns the number of combinations of the iterators.
func Combinations(iterators []Iterator) int {
	if len(iterators) == 0 {
		return 0
	}
	n := 1
	for _, it := range iterators {
		n *= len(it.Values)
	}
	return n
}

// combination returns the iterator values of the i-th combination.
func combination(iterators []Iterator, i int) Map {
	values := make(Map, len(iterators))
	for k := len(iterators) - 1; k >= 0; k-- {
		it := iterators[k]
		values[it.Name] = it.Values[i%len(it.Values)]
		i /= len(it.Values)
	}
	return values
}

// Iterators returns the iterators of a repeater: the keys of fm, referenced
// in permalink, whose values are sequences. keys is the declaration order of
// the keys of fm; referenced keys not in keys follow in alphabetical order.
func Iterators(permalink interface{}, fm Map, keys []string) ([]Iterator, error) {
	templates, err := Templates(permalink)
	if err != nil {
		return nil, err
	}
	referenced := map[string]bool{}
	for _, tpl := range templates {
		for _, m := range variable.FindAllStringSubmatch(tpl, -1) {
			referenced[m[1]] = true
		}
	}
	var names []string
	seen := map[string]bool{}
	for _, k := range keys {
		if referenced[k] && !seen[k] {
			names = append(names, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range referenced {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)
	var iterators []Iterator
	for _, name := range names {
		v, ok := fm[name]
		if !ok || !isList(v) {
			continue
		}
		rv := reflect.ValueOf(v)
		values := make([]interface{}, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		iterators = append(iterators, Iterator{Name: name, Values: values})
	}
	return iterators, nil
}

// IsRepeater reports whether permalink references a sequence of fm.
func IsRepeater(permalink interface{}, fm Map) bool {
	templates, err := Templates(permalink)
	if err != nil {
		return false
	}
	for _, tpl := range templates {
		for _, m := range variable.FindAllStringSubmatch(tpl, -1) {
			if isList(fm[m[1]]) {
				return true
			}
		}
	}
	return false
}

// expand expands a single permalink template. Names are looked up in
// iterators, then in ctx.
func expand(tpl string, ctx Map, iterators Map) (ExpandedValue, error) {
	lookup := func(name string) (string, error) {
		if v, ok := iterators[name]; ok {
			return toString(name, v)
		}
		return scalar(name, ctx)
	}
	raw, err := replace(tpl, lookup)
	if err != nil {
		return ExpandedValue{}, err
	}
	evaluated, err := replace(tpl, func(name string) (string, error) {
		s, err := lookup(name)
		return Slugify(s), err
	})
	if err != nil {
		return ExpandedValue{}, err
	}
	return ExpandedValue{Raw: raw, Evaluated: evaluated}, nil
}

func isList(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		_, bytes := v.([]byte)
		return !bytes
	}
	return false
}

// fileExtensions are the extensions that make a permalink a file path
// instead of a pretty URL.
var fileExtensions = map[string]bool{
	"atom":        true,
	"css":         true,
	"htm":         true,
	"html":        true,
	"js":          true,
	"json":        true,
	"rss":         true,
	"svg":         true,
	"txt":         true,
	"webmanifest": true,
	"xml":         true,
}

// TargetFile returns the path, relative to the output directory, of the
// file of permalink.
//
//	/about/           about/index.html
//	/home/about.html  home/about.html
//	/blog/hello       blog/hello/index.html
//	/                 index.html
func TargetFile(permalink string) string {
	p := strings.TrimPrefix(path.Clean("/"+permalink), "/")
	if p == "" {
		return "index.html"
	}
	if strings.HasSuffix(permalink, "/") {
		return p + "/index.html"
	}
	if ext := path.Ext(p); ext != "" && fileExtensions[strings.ToLower(ext[1:])] {
		return p
	}
	return p + "/index.html"
}

// DefaultPermalink returns the permalink of a document, with the given path
// relative to the project, that does not declare one. Leading folders whose
// names start with an underscore are removed.
//
//	_pages/about.html      /about.html
//	_pages/blog/index.html /blog/index.html
func DefaultPermalink(name string) string {
	parts := strings.Split(name, "/")
	i := 0
	for i < len(parts)-1 && strings.HasPrefix(parts[i], "_") {
		i++
	}
	return "/" + strings.Join(parts[i:], "/")
}
