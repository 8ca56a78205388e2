// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frontmatter

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Map is a front matter mapping.
type Map = map[string]interface{}

// Document is a file split in its front matter and its body.
type Document struct {
	Matter Map
	// Keys are the top level keys of Matter in declaration order.
	Keys []string
	Body []byte
	// LineOffset is the number of lines that precede the body.
	LineOffset int
}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Split splits src in its front matter and its body. If src does not start
// with a front matter block, the front matter is empty and the body is src.
func Split(src []byte) (*Document, error) {
	var node yaml.Node
	body, err := frontmatter.Parse(bytes.NewReader(src), &node, yamlFormat)
	if err != nil {
		return nil, yamlError(err)
	}
	doc := &Document{Matter: Map{}, Body: body}
	if n := len(src) - len(body); n > 0 && bytes.HasSuffix(src, body) {
		doc.LineOffset = bytes.Count(src[:n], []byte{'\n'})
	}
	if node.Kind == 0 {
		return doc, nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = *node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return doc, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: node.Line + 1, Msg: "front matter is not a mapping"}
	}
	for i := 0; i < len(node.Content); i += 2 {
		doc.Keys = append(doc.Keys, node.Content[i].Value)
	}
	err = node.Decode(&doc.Matter)
	if err != nil {
		return nil, yamlError(err)
	}
	return doc, nil
}
