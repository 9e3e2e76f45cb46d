// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package elementmodel holds the typed result of resolving an application
// element: a tree stating, for every element and every attribute or child it
// carries, which metamodel construct it instantiates.
//
// A Model is assembled top-down with a Builder during one resolution and is
// immutable afterwards. Models are owned by the caller that requested the
// resolution; nothing is shared between resolutions.
package elementmodel

import (
	"github.com/specialistvlad/elementmodel/internal/appelement"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/syntax"
)

// Model is one node of a resolved element tree.
type Model struct {
	construct metamodel.Construct
	syntax    *syntax.Descriptor
	source    *appelement.Element
	value     *string
	children  []*Model
}

// Construct returns the metamodel construct the node is bound to.
func (m *Model) Construct() metamodel.Construct { return m.construct }

// Syntax returns the descriptor used to bind the node.
func (m *Model) Syntax() *syntax.Descriptor { return m.syntax }

// Source returns the matched element. Constructs bound from an attribute
// value have none.
func (m *Model) Source() (*appelement.Element, bool) {
	return m.source, m.source != nil
}

// Value returns the raw attribute text for attribute bindings.
func (m *Model) Value() (string, bool) {
	if m.value == nil {
		return "", false
	}
	return *m.value, true
}

// Children returns the nested models in resolution order.
func (m *Model) Children() []*Model {
	out := make([]*Model, len(m.children))
	copy(out, m.children)
	return out
}

// Child returns the first direct child bound to a construct with the given
// kind and name.
func (m *Model) Child(kind metamodel.Kind, name string) (*Model, bool) {
	for _, c := range m.children {
		if c.construct.Kind() == kind && c.construct.ConstructName() == name {
			return c, true
		}
	}
	return nil, false
}

// Walk visits the tree depth-first, parents before children. Returning false
// from fn stops the walk.
func (m *Model) Walk(fn func(*Model) bool) bool {
	if !fn(m) {
		return false
	}
	for _, c := range m.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
