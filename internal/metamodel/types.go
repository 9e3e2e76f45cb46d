// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines parameter types and the parsing of HCL type expressions
// (e.g., `string`, `list(TrustStore)`) into them.
//
// Why not use cty types directly?
//
// Primitive parameter types are cty types, but object types here are named
// references to structural types declared by the extension. Two parameters
// typed `list(TrustStore)` must be recognized as the same type even though
// they were parsed independently, so every type has a canonical TypeKey that
// is used wherever types are compared or used as map keys.

package metamodel

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// TypeKind is the shape of a parameter type.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypeObject
	TypeList
	TypeMap
)

// TypeKey is a canonical, comparable identity of a type.
type TypeKey string

// Type is the type of a parameter.
type Type struct {
	Kind TypeKind

	// Primitive is set for TypePrimitive. cty.DynamicPseudoType stands for `any`.
	Primitive cty.Type

	// ObjectName names the structural type for TypeObject. Object is linked
	// once the whole extension has been loaded.
	ObjectName string
	Object     *StructuralType

	// Element is the item type of TypeList and TypeMap.
	Element *Type
}

// Primitive types.
var (
	String = &Type{Kind: TypePrimitive, Primitive: cty.String}
	Number = &Type{Kind: TypePrimitive, Primitive: cty.Number}
	Bool   = &Type{Kind: TypePrimitive, Primitive: cty.Bool}
	Any    = &Type{Kind: TypePrimitive, Primitive: cty.DynamicPseudoType}
)

// ObjectOf returns an object type referring to t.
func ObjectOf(t *StructuralType) *Type {
	return &Type{Kind: TypeObject, ObjectName: t.Name, Object: t}
}

// ListOf returns a list type of the given element type.
func ListOf(elem *Type) *Type { return &Type{Kind: TypeList, Element: elem} }

// MapOf returns a map type of the given element type.
func MapOf(elem *Type) *Type { return &Type{Kind: TypeMap, Element: elem} }

// Key returns the canonical identity of the type.
func (t *Type) Key() TypeKey {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypePrimitive:
		return TypeKey(t.Primitive.FriendlyNameForConstraint())
	case TypeObject:
		return TypeKey(t.ObjectName)
	case TypeList:
		return TypeKey("list(" + string(t.Element.Key()) + ")")
	case TypeMap:
		return TypeKey("map(" + string(t.Element.Key()) + ")")
	default:
		return ""
	}
}

func (t *Type) String() string { return string(t.Key()) }

// IsPrimitive reports whether values of the type are plain scalars.
func (t *Type) IsPrimitive() bool { return t != nil && t.Kind == TypePrimitive }

// IsCollection reports whether the type is a list or a map.
func (t *Type) IsCollection() bool {
	return t != nil && (t.Kind == TypeList || t.Kind == TypeMap)
}

// ParseTypeExpr converts an HCL type expression into a Type. Object types are
// returned unlinked; call Link once all structural types are known.
func ParseTypeExpr(expr hcl.Expression) (*Type, hcl.Diagnostics) {
	if expr == nil {
		return Any, nil
	}

	if keyword := hcl.ExprAsKeyword(expr); keyword != "" {
		switch keyword {
		case "string":
			return String, nil
		case "number":
			return Number, nil
		case "bool":
			return Bool, nil
		case "any":
			return Any, nil
		case "list", "map", "set", "object", "tuple":
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Incomplete type specification",
				Detail:   fmt.Sprintf("The type constructor %q requires an element type, e.g. %s(string).", keyword, keyword),
				Subject:  expr.Range().Ptr(),
			}}
		default:
			return &Type{Kind: TypeObject, ObjectName: keyword}, nil
		}
	}

	call, diags := hcl.ExprCall(expr)
	if diags.HasErrors() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "A type must be a keyword like 'string', the name of a declared type, or a collection like list(string).",
			Subject:  expr.Range().Ptr(),
		}}
	}

	if len(call.Arguments) != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   fmt.Sprintf("The type constructor %q requires exactly one argument, got %d.", call.Name, len(call.Arguments)),
			Subject:  call.ArgsRange.Ptr(),
		}}
	}

	elem, elemDiags := ParseTypeExpr(call.Arguments[0])
	if elemDiags.HasErrors() {
		return nil, elemDiags
	}

	switch call.Name {
	case "list", "set":
		return ListOf(elem), nil
	case "map":
		return MapOf(elem), nil
	default:
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported type constructor",
			Detail:   fmt.Sprintf("Unknown type constructor %q. Supported constructors are list, set and map.", call.Name),
			Subject:  call.NameRange.Ptr(),
		}}
	}
}

// Link resolves object references in t against the extension's types.
func (t *Type) Link(ext *Extension) error {
	switch t.Kind {
	case TypeObject:
		st, ok := ext.Type(t.ObjectName)
		if !ok {
			return fmt.Errorf("unknown type %q", t.ObjectName)
		}
		t.Object = st
	case TypeList, TypeMap:
		return t.Element.Link(ext)
	}
	return nil
}
