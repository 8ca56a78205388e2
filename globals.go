// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sitepress

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/open2b/sitepress/internal/jail"

	"github.com/open2b/scriggo/builtin"
	"github.com/open2b/scriggo/native"
	"github.com/spf13/cast"
)

// globals returns the globals available to the templates. base is the base
// URL of the site.
func globals(base string) native.Declarations {
	return native.Declarations{
		// site
		"collections": (*map[string][]jail.Object)(nil),
		"menu":        (*[]jail.Object)(nil),
		"pages":       (*[]jail.Object)(nil),
		"site":        (*map[string]interface{})(nil),

		// documents
		"selectKey": selectKey,
		"url":       func(v interface{}) string { return URL(base, v) },
		"where":     where,

		// html
		"htmlEscape": builtin.HtmlEscape,

		// sort
		"reverse": builtin.Reverse,
		"sort":    builtin.Sort,

		// strings
		"abbreviate":    builtin.Abbreviate,
		"capitalize":    builtin.Capitalize,
		"capitalizeAll": builtin.CapitalizeAll,
		"hasPrefix":     builtin.HasPrefix,
		"hasSuffix":     builtin.HasSuffix,
		"index":         builtin.Index,
		"join":          builtin.Join,
		"lastIndex":     builtin.LastIndex,
		"replace":       builtin.Replace,
		"replaceAll":    builtin.ReplaceAll,
		"split":         builtin.Split,
		"toKebab":       builtin.ToKebab,
		"toLower":       builtin.ToLower,
		"toUpper":       builtin.ToUpper,
		"trim":          builtin.Trim,
		"trimLeft":      builtin.TrimLeft,
		"trimPrefix":    builtin.TrimPrefix,
		"trimRight":     builtin.TrimRight,
		"trimSuffix":    builtin.TrimSuffix,
	}
}

// URL returns the URL of v relative to the base URL base. v can be a path
// or a document, in which case its permalink is used.
func URL(base string, v interface{}) string {
	var p string
	switch v := v.(type) {
	case jail.Object:
		p = v.Permalink()
	case interface{ Permalink() string }:
		p = v.Permalink()
	default:
		p = cast.ToString(v)
	}
	base = strings.Trim(base, "/")
	if base == "" {
		base = "/"
	} else {
		base = "/" + base + "/"
	}
	return base + strings.TrimLeft(p, "/")
}

func selectKey(items []jail.Object, key string) []interface{} {
	return Select(items, key, true, true)
}

func where(items []jail.Object, key, op string, value interface{}) []jail.Object {
	objects, err := Where(items, key, op, value)
	if err != nil {
		panic(err)
	}
	return objects
}

// Select returns the values of key of items, skipping the missing and nil
// values. If flatten is true, the elements of the slice values are returned
// in place of the slices. If distinct is true, duplicated values are
// returned only once. key can be a dotted path such as "author.name".
func Select(items []jail.Object, key string, flatten, distinct bool) []interface{} {
	values := []interface{}{}
	add := func(v interface{}) {
		if v == nil {
			return
		}
		if distinct {
			for _, w := range values {
				if equal(v, w) {
					return
				}
			}
		}
		values = append(values, v)
	}
	for _, item := range items {
		v, ok := lookup(item, key)
		if !ok {
			continue
		}
		if rv := reflect.ValueOf(v); flatten && rv.Kind() == reflect.Slice {
			for i := 0; i < rv.Len(); i++ {
				add(rv.Index(i).Interface())
			}
			continue
		}
		add(v)
	}
	return values
}

// InvalidOperatorError is returned by Where when the operator is not valid.
type InvalidOperatorError struct {
	Op string
}

func (err *InvalidOperatorError) Error() string {
	return fmt.Sprintf("where: invalid operator %q", err.Op)
}

// Where returns the items whose value of key satisfies the comparison with
// value. key can be a dotted path such as "author.name". The operators are
// "==", "!=", ">", ">=", "<", "<=", "~=" (contains), "_=" (contains, case
// insensitive) and "/=" (matches the regular expression).
//
// Values of different types are never equal, except numbers. The value of
// a missing key is nil.
func Where(items []jail.Object, key, op string, value interface{}) ([]jail.Object, error) {
	var re *regexp.Regexp
	switch op {
	case "==", "!=", ">", ">=", "<", "<=", "~=", "_=":
	case "/=":
		expr, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("where: regular expression must be a string, got %T", value)
		}
		if len(expr) > 1 && expr[0] == '/' && expr[len(expr)-1] == '/' {
			expr = expr[1 : len(expr)-1]
		}
		var err error
		re, err = regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
	default:
		return nil, &InvalidOperatorError{Op: op}
	}
	objects := []jail.Object{}
	for _, item := range items {
		v, _ := lookup(item, key)
		if compare(v, op, value, re) {
			objects = append(objects, item)
		}
	}
	return objects, nil
}

// compare reports whether v op value is true.
func compare(v interface{}, op string, value interface{}, re *regexp.Regexp) bool {
	switch op {
	case "==":
		return equal(v, value)
	case "!=":
		return !equal(v, value)
	case ">", ">=", "<", "<=":
		c, ok := order(v, value)
		if !ok {
			return false
		}
		switch op {
		case ">":
			return c > 0
		case ">=":
			return c >= 0
		case "<":
			return c < 0
		}
		return c <= 0
	case "~=":
		return contains(v, value, false)
	case "_=":
		return contains(v, value, true)
	case "/=":
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}
	return false
}

// equal reports whether a and b are equal. Numbers are compared by value,
// other values must have the same type.
func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// order compares two numbers or two strings.
func order(a, b interface{}) (int, bool) {
	if x, ok := number(a); ok {
		y, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	s, ok := a.(string)
	if !ok {
		return 0, false
	}
	t, ok := b.(string)
	if !ok {
		return 0, false
	}
	return strings.Compare(s, t), true
}

// contains reports whether the string v contains the string value or the
// slice v contains value.
func contains(v, value interface{}, fold bool) bool {
	if s, ok := v.(string); ok {
		t, ok := value.(string)
		if !ok {
			return false
		}
		if fold {
			s, t = strings.ToLower(s), strings.ToLower(t)
		}
		return strings.Contains(s, t)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i).Interface()
		if fold {
			s, ok1 := e.(string)
			t, ok2 := value.(string)
			if ok1 && ok2 && strings.EqualFold(s, t) {
				return true
			}
		}
		if equal(e, value) {
			return true
		}
	}
	return false
}

// number returns v as a float64 if it is a number.
func number(v interface{}) (float64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(v), true
	}
	return 0, false
}

// lookup returns the value of the dotted key of item.
func lookup(item jail.Object, key string) (interface{}, bool) {
	names := strings.Split(key, ".")
	if !item.Has(names[0]) {
		return nil, false
	}
	v := item.Get(names[0])
	for _, name := range names[1:] {
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, false
		}
		var ok bool
		if v, ok = m[name]; !ok {
			return nil, false
		}
	}
	return v, true
}
