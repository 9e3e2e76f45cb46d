// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package appelement defines the generic, untyped shape every configuration
// document parses into: a namespaced element with string attributes and an
// ordered list of inner elements.
//
// Nothing in this package knows about extensions or syntax rules. The
// element tree is the raw input of the resolver, which binds it against the
// extension metamodel. Loaders for concrete document formats (HCL and XML)
// live alongside the model so callers get the same tree regardless of the
// format a document was written in.
package appelement

import "fmt"

// Identifier is the syntactic identity of an element: its local name and the
// namespace URI it belongs to.
type Identifier struct {
	Name      string
	Namespace string
}

// String renders the identifier in Clark notation, {namespace}name.
func (id Identifier) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return fmt.Sprintf("{%s}%s", id.Namespace, id.Name)
}

// Element is a single parsed unit of a configuration document.
// Elements are treated as read-only once a loader has produced them.
type Element struct {
	Identifier      Identifier
	Attributes      map[string]string
	InnerComponents []*Element

	// Source points back to the document location the element came from.
	// It is informational only and never takes part in matching.
	Source *Location
}

// Location records where an element was declared.
type Location struct {
	FilePath string
	Line     int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.FilePath, l.Line)
}

// Attribute returns the raw value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	if e == nil || e.Attributes == nil {
		return "", false
	}
	v, ok := e.Attributes[name]
	return v, ok
}

// FindInner returns the first inner component carrying the given identifier.
func (e *Element) FindInner(id Identifier) (*Element, bool) {
	if e == nil {
		return nil, false
	}
	for _, inner := range e.InnerComponents {
		if inner != nil && inner.Identifier == id {
			return inner, true
		}
	}
	return nil, false
}

// HasInnerComponents reports whether the element nests any further elements.
func (e *Element) HasInnerComponents() bool {
	return e != nil && len(e.InnerComponents) > 0
}
