// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package syntax describes how metamodel constructs are written in
// documents.
//
// A Descriptor answers, for one construct, questions like "which element
// name carries it?", "may it be written as an attribute of its parent?" and
// "is its element a wrapper around the real, polymorphic value?". The
// resolver never looks at naming conventions itself; it only consults
// descriptors, so the projection rules can change without touching the
// matching algorithm.
package syntax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/elementmodel/internal/appelement"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
)

// Descriptor is the syntax projection of a single construct. Descriptors are
// computed once and shared; they must not be modified after creation.
type Descriptor struct {
	ElementName  string
	Prefix       string
	NamespaceURI string

	// AttributeName is the parent attribute carrying a simple value of the
	// construct.
	AttributeName string

	// Wrapped marks a construct whose element wraps exactly one further
	// element holding the actual implementation.
	Wrapped bool

	SupportsAttributeDeclaration bool
	SupportsTopLevelDeclaration  bool
	SupportsChildDeclaration     bool

	// Generics holds the descriptors of type arguments, keyed by their
	// canonical type key (e.g. the item type of a list).
	Generics map[metamodel.TypeKey]*Descriptor

	// Children holds the descriptors of named fields.
	Children map[string]*Descriptor
}

// Generic returns the descriptor of the given type argument.
func (d *Descriptor) Generic(key metamodel.TypeKey) (*Descriptor, bool) {
	if d == nil {
		return nil, false
	}
	g, ok := d.Generics[key]
	return g, ok
}

// Child returns the descriptor of the named field.
func (d *Descriptor) Child(name string) (*Descriptor, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.Children[name]
	return c, ok
}

// Identifier returns the element identity of the construct. Constructs that
// can be declared neither at the top level nor as a child have none.
func (d *Descriptor) Identifier() (appelement.Identifier, bool) {
	if d == nil || !(d.SupportsTopLevelDeclaration || d.SupportsChildDeclaration) {
		return appelement.Identifier{}, false
	}
	return appelement.Identifier{Name: d.ElementName, Namespace: d.NamespaceURI}, true
}

// Matches reports whether the element carries this descriptor's identity.
func (d *Descriptor) Matches(el *appelement.Element) bool {
	id, ok := d.Identifier()
	return ok && el != nil && el.Identifier == id
}

// String renders a one-line summary, used by the describe command.
func (d *Descriptor) String() string {
	if d == nil {
		return "<none>"
	}
	var caps []string
	if d.SupportsTopLevelDeclaration {
		caps = append(caps, "top-level")
	}
	if d.SupportsChildDeclaration {
		caps = append(caps, "child")
	}
	if d.SupportsAttributeDeclaration {
		caps = append(caps, "attribute="+d.AttributeName)
	}
	if d.Wrapped {
		caps = append(caps, "wrapped")
	}

	var b strings.Builder
	if d.ElementName != "" {
		fmt.Fprintf(&b, "%s:%s", d.Prefix, d.ElementName)
	} else {
		b.WriteString("-")
	}
	if len(caps) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(caps, ", "))
	}
	if len(d.Generics) > 0 {
		keys := make([]string, 0, len(d.Generics))
		for k := range d.Generics {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, " generics(%s)", strings.Join(keys, ", "))
	}
	if len(d.Children) > 0 {
		names := make([]string, 0, len(d.Children))
		for n := range d.Children {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " children(%s)", strings.Join(names, ", "))
	}
	return b.String()
}
