// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify returns s in a form that can be used as a path segment. Letters
// are lowered and stripped of their diacritics, runs of white space and
// characters not allowed in a path segment become a single hyphen.
//
//	"Hello World"    "hello-world"
//	"Café au lait!"  "cafe-au-lait"
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isSlugRune(r):
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(unicode.ToLower(r))
		default:
			hyphen = true
		}
	}
	return b.String()
}

func isSlugRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '.', '_', '~', '+':
		return true
	}
	return false
}
