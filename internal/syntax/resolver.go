// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file computes descriptors with the default projection rules.
//
// The rules, before any `syntax` hints are applied:
//
//   - configuration: element named after it, top-level only.
//   - operation, source, connection provider: element, child only.
//   - parameter group: element, child only when shown inline.
//   - primitive parameter: attribute only.
//   - object parameter: attribute (by reference) or child element; wrapped
//     when the object type is abstract.
//   - collection parameter: attribute or child element, with the item type's
//     descriptor registered as a generic.
//   - structural type: element, child always, top-level when declared so.

package syntax

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/elementmodel/internal/metamodel"
)

// ErrUnsupportedConstruct is returned for constructs the resolver cannot
// project. It signals a malformed metamodel, not a document problem.
var ErrUnsupportedConstruct = errors.New("construct has no syntax projection")

// Resolver computes the syntax projection of metamodel constructs. One
// resolver serves exactly one extension. Implementations must be safe for
// concurrent use and side-effect free.
type Resolver interface {
	Resolve(c metamodel.Construct) (*Descriptor, error)
	ResolveType(t *metamodel.Type) (*Descriptor, bool)
}

// DefaultResolver projects constructs with the default rules and memoizes
// every descriptor it computes.
type DefaultResolver struct {
	ext *metamodel.Extension

	mu    sync.Mutex
	cache map[metamodel.Construct]*Descriptor
}

// NewResolver creates the default resolver for an extension.
func NewResolver(ext *metamodel.Extension) *DefaultResolver {
	return &DefaultResolver{
		ext:   ext,
		cache: make(map[metamodel.Construct]*Descriptor),
	}
}

// Resolve returns the descriptor of a construct.
func (r *DefaultResolver) Resolve(c metamodel.Construct) (*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(c)
}

// ResolveType returns the descriptor of an object type. Primitive and
// collection types have no element of their own.
func (r *DefaultResolver) ResolveType(t *metamodel.Type) (*Descriptor, bool) {
	if t == nil || t.Kind != metamodel.TypeObject || t.Object == nil {
		return nil, false
	}
	d, err := r.Resolve(t.Object)
	if err != nil {
		return nil, false
	}
	return d, true
}

// resolve must be called with r.mu held. The descriptor is cached before its
// children are computed so that self-referencing types terminate.
func (r *DefaultResolver) resolve(c metamodel.Construct) (*Descriptor, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil construct", ErrUnsupportedConstruct)
	}
	if d, ok := r.cache[c]; ok {
		return d, nil
	}

	d := &Descriptor{Prefix: r.ext.Prefix, NamespaceURI: r.ext.NamespaceURI}
	r.cache[c] = d

	var err error
	switch v := c.(type) {
	case *metamodel.Configuration:
		d.ElementName = elementName(v.Name)
		d.SupportsTopLevelDeclaration = true
		applyHints(d, v.Syntax)
	case *metamodel.Operation:
		r.component(d, &v.Component)
	case *metamodel.Source:
		r.component(d, &v.Component)
	case *metamodel.ConnectionProvider:
		r.component(d, &v.Component)
	case *metamodel.ParameterGroup:
		err = r.group(d, v)
	case *metamodel.Parameter:
		err = r.parameter(d, v)
	case *metamodel.StructuralType:
		err = r.structuralType(d, v)
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedConstruct, c)
	}

	if err != nil {
		delete(r.cache, c)
		return nil, err
	}
	return d, nil
}

func (r *DefaultResolver) component(d *Descriptor, c *metamodel.Component) {
	d.ElementName = elementName(c.Name)
	d.SupportsChildDeclaration = true
	applyHints(d, c.Syntax)
}

func (r *DefaultResolver) group(d *Descriptor, g *metamodel.ParameterGroup) error {
	d.ElementName = elementName(g.Name)
	d.SupportsChildDeclaration = g.ShowInline

	children, err := r.fields(g.Parameters)
	if err != nil {
		return fmt.Errorf("parameter group '%s': %w", g.Name, err)
	}
	d.Children = children
	applyHints(d, g.Syntax)
	return nil
}

func (r *DefaultResolver) parameter(d *Descriptor, p *metamodel.Parameter) error {
	if p.Type == nil {
		return fmt.Errorf("%w: parameter '%s' has no type", ErrUnsupportedConstruct, p.Name)
	}

	d.AttributeName = p.Name
	d.SupportsAttributeDeclaration = true

	switch p.Type.Kind {
	case metamodel.TypePrimitive:
	case metamodel.TypeObject:
		obj := p.Type.Object
		if obj == nil {
			return fmt.Errorf("%w: parameter '%s' refers to unlinked type '%s'", ErrUnsupportedConstruct, p.Name, p.Type.ObjectName)
		}
		d.ElementName = elementName(p.Name)
		d.SupportsChildDeclaration = true
		d.Wrapped = obj.Abstract
		if !d.Wrapped {
			children, err := r.fields(obj.Fields)
			if err != nil {
				return fmt.Errorf("parameter '%s': %w", p.Name, err)
			}
			d.Children = children
		}
	case metamodel.TypeList, metamodel.TypeMap:
		d.ElementName = elementName(p.Name)
		d.SupportsChildDeclaration = true
		item, err := r.item(p.Name, p.Type.Element)
		if err != nil {
			return fmt.Errorf("parameter '%s': %w", p.Name, err)
		}
		d.Generics = map[metamodel.TypeKey]*Descriptor{p.Type.Element.Key(): item}
	default:
		return fmt.Errorf("%w: parameter '%s' has unknown type kind %d", ErrUnsupportedConstruct, p.Name, p.Type.Kind)
	}

	applyHints(d, p.Syntax)
	return nil
}

// item returns the descriptor of a single collection item.
func (r *DefaultResolver) item(collection string, elem *metamodel.Type) (*Descriptor, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: collection without an item type", ErrUnsupportedConstruct)
	}
	if elem.Kind == metamodel.TypeObject {
		if elem.Object == nil {
			return nil, fmt.Errorf("%w: unlinked item type '%s'", ErrUnsupportedConstruct, elem.ObjectName)
		}
		return r.resolve(elem.Object)
	}

	d := &Descriptor{
		ElementName:              itemName(collection),
		Prefix:                   r.ext.Prefix,
		NamespaceURI:             r.ext.NamespaceURI,
		SupportsChildDeclaration: true,
	}
	if elem.IsPrimitive() {
		d.AttributeName = "value"
		d.SupportsAttributeDeclaration = true
	}
	return d, nil
}

func (r *DefaultResolver) structuralType(d *Descriptor, t *metamodel.StructuralType) error {
	d.ElementName = elementName(t.Name)
	d.SupportsChildDeclaration = !t.Abstract
	d.SupportsTopLevelDeclaration = t.TopLevel && !t.Abstract

	children, err := r.fields(t.Fields)
	if err != nil {
		return fmt.Errorf("type '%s': %w", t.Name, err)
	}
	d.Children = children
	applyHints(d, t.Syntax)
	return nil
}

func (r *DefaultResolver) fields(params []*metamodel.Parameter) (map[string]*Descriptor, error) {
	if len(params) == 0 {
		return nil, nil
	}
	children := make(map[string]*Descriptor, len(params))
	for _, p := range params {
		child, err := r.resolve(p)
		if err != nil {
			return nil, err
		}
		children[p.Name] = child
	}
	return children, nil
}

func applyHints(d *Descriptor, h *metamodel.SyntaxHints) {
	if h == nil {
		return
	}
	if h.ElementName != nil {
		d.ElementName = *h.ElementName
	}
	if h.AttributeName != nil {
		d.AttributeName = *h.AttributeName
	}
	if h.AllowAttribute != nil {
		d.SupportsAttributeDeclaration = *h.AllowAttribute
	}
	if h.AllowChild != nil {
		d.SupportsChildDeclaration = *h.AllowChild
	}
	if h.AllowTopLevel != nil {
		d.SupportsTopLevelDeclaration = *h.AllowTopLevel
	}
	if h.Wrapped != nil {
		d.Wrapped = *h.Wrapped
	}
	if d.Wrapped {
		// Only the wrapped element carries structure.
		d.Children = nil
		d.Generics = nil
		if d.ElementName == "" {
			d.ElementName = elementName(d.AttributeName)
		}
		d.SupportsChildDeclaration = true
	}
}
