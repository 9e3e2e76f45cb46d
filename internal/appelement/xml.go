// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns XML documents into element trees. XML carries namespaces
// natively, so an element's namespace is simply its resolved namespace URI.

package appelement

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/elementmodel/internal/ctxlog"
)

// ParseXML parses an XML document and returns its top-level elements. That is
// the root element itself, or the root's children when the root has no
// namespace and only serves as a container. Namespace declarations and
// prefixed attributes (xmlns, xsi:...) are not carried as element attributes.
func ParseXML(ctx context.Context, src []byte, filePath string) ([]*Element, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing XML document.", "file_path", filePath)

	dec := xml.NewDecoder(bytes.NewReader(src))
	var stack []*Element
	var roots []*Element

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML file %s: %w", filePath, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Identifier: Identifier{Name: t.Name.Local, Namespace: t.Name.Space},
				Attributes: make(map[string]string, len(t.Attr)),
				Source:     &Location{FilePath: filePath, Line: lineAt(src, offset)},
			}
			for _, attr := range t.Attr {
				if attr.Name.Space != "" || attr.Name.Local == "xmlns" || strings.HasPrefix(attr.Name.Local, "xmlns:") {
					continue
				}
				el.Attributes[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				roots = append(roots, el)
			} else {
				parent := stack[len(stack)-1]
				parent.InnerComponents = append(parent.InnerComponents, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if len(roots) == 1 && roots[0].Identifier.Namespace == "" {
		logger.Debug("Unwrapping container root element.", "file_path", filePath, "root", roots[0].Identifier.Name)
		roots = roots[0].InnerComponents
	}

	logger.Debug("Parsed XML document.", "file_path", filePath, "elements", len(roots))
	return roots, nil
}

// lineAt returns the 1-based line of the given byte offset.
func lineAt(src []byte, offset int64) int {
	if offset > int64(len(src)) {
		offset = int64(len(src))
	}
	return bytes.Count(src[:offset], []byte("\n")) + 1
}
