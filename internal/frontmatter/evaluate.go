// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// variable matches a %name reference.
var variable = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)`)

// Keys that are left untouched by Evaluate because they are expanded as
// permalinks.
var permalinkKeys = map[string]bool{
	"permalink": true,
	"redirects": true,
}

// Evaluate resolves the %name references of raw and returns the resolved
// front matter. Names are looked up in the top level keys of raw, then in
// extra. If raw has a parsable "date" key, "year", "month" and "day" are
// also available.
//
// Values that, after the substitution, contain other references are
// substituted again until no reference is left. If a reference cannot be
// resolved, because of a cycle, Evaluate returns a *ParseError. If a name
// is not defined, it returns an *UndefinedVariableError.
func Evaluate(raw, extra Map) (Map, error) {
	fm := make(Map, len(raw)+len(extra)+3)
	for k, v := range extra {
		fm[k] = copyValue(v)
	}
	for k, v := range raw {
		fm[k] = copyValue(v)
	}
	for k, v := range DateParts(fm["date"]) {
		if _, ok := fm[k]; !ok {
			fm[k] = v
		}
	}

	keys := make([]string, 0, len(fm))
	for k := range fm {
		if !permalinkKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	maxPasses := len(keys) + 1
	for pass := 0; ; pass++ {
		if pass == maxPasses {
			return nil, &ParseError{Msg: fmt.Sprintf("cannot resolve variables of %s: reference cycle", strings.Join(pending(fm, keys), ", "))}
		}
		changed := false
		for _, k := range keys {
			v, ch, err := substitute(fm[k], fm)
			if err != nil {
				return nil, err
			}
			if ch {
				fm[k] = v
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	if p := pending(fm, keys); len(p) > 0 {
		return nil, &ParseError{Msg: fmt.Sprintf("cannot resolve variables of %s: reference cycle", strings.Join(p, ", "))}
	}

	return fm, nil
}

// DateParts returns the "year", "month" and "day" values of date. It returns
// nil if date is not a valid date.
func DateParts(date interface{}) Map {
	if date == nil {
		return nil
	}
	t, err := cast.ToTimeE(date)
	if err != nil || t.IsZero() {
		return nil
	}
	return Map{
		"year":  t.Format("2006"),
		"month": t.Format("01"),
		"day":   t.Format("02"),
	}
}

// substitute substitutes the references in the strings of v, recursively.
// It reports whether v has been changed.
func substitute(v interface{}, fm Map) (interface{}, bool, error) {
	switch v := v.(type) {
	case string:
		s, err := replace(v, func(name string) (string, error) {
			return scalar(name, fm)
		})
		if err != nil {
			return nil, false, err
		}
		return s, s != v, nil
	case Map:
		changed := false
		for k, e := range v {
			e, ch, err := substitute(e, fm)
			if err != nil {
				return nil, false, err
			}
			if ch {
				v[k] = e
				changed = true
			}
		}
		return v, changed, nil
	case []interface{}:
		changed := false
		for i, e := range v {
			e, ch, err := substitute(e, fm)
			if err != nil {
				return nil, false, err
			}
			if ch {
				v[i] = e
				changed = true
			}
		}
		return v, changed, nil
	}
	return v, false, nil
}

// replace replaces each reference in s with the value returned by value.
func replace(s string, value func(name string) (string, error)) (string, error) {
	locs := variable.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s, nil
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		v, err := value(s[loc[2]:loc[3]])
		if err != nil {
			return "", err
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(v)
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// scalar returns the value of the named variable as a string.
func scalar(name string, fm Map) (string, error) {
	v, ok := fm[name]
	if !ok {
		return "", &UndefinedVariableError{Name: name}
	}
	return toString(name, v)
}

func toString(name string, v interface{}) (string, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02"), nil
	}
	if isSequence(v) {
		return "", &ParseError{Msg: fmt.Sprintf("variable %%%s is not a scalar value", name)}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &ParseError{Msg: fmt.Sprintf("variable %%%s is not a scalar value", name)}
	}
	return s, nil
}

// pending returns the keys whose values still contain references.
func pending(fm Map, keys []string) []string {
	var p []string
	for _, k := range keys {
		if hasReference(fm[k]) {
			p = append(p, k)
		}
	}
	return p
}

func hasReference(v interface{}) bool {
	switch v := v.(type) {
	case string:
		return variable.MatchString(v)
	case Map:
		for _, e := range v {
			if hasReference(e) {
				return true
			}
		}
	case []interface{}:
		for _, e := range v {
			if hasReference(e) {
				return true
			}
		}
	}
	return false
}

// isSequence reports whether v is a sequence or a mapping.
func isSequence(v interface{}) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// copyValue returns a deep copy of the maps and slices in v.
func copyValue(v interface{}) interface{} {
	switch v := v.(type) {
	case Map:
		m := make(Map, len(v))
		for k, e := range v {
			m[k] = copyValue(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, e := range v {
			s[i] = copyValue(e)
		}
		return s
	}
	return v
}
