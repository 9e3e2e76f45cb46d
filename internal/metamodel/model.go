// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package metamodel

import "github.com/zclconf/go-cty/cty"

// Kind names the category of a construct.
type Kind string

const (
	KindConfiguration      Kind = "configuration"
	KindOperation          Kind = "operation"
	KindSource             Kind = "source"
	KindConnectionProvider Kind = "connection_provider"
	KindParameterGroup     Kind = "parameter_group"
	KindParameter          Kind = "parameter"
	KindType               Kind = "type"
)

// DefaultGroupName is the group that receives parameters declared directly
// on a component.
const DefaultGroupName = "General"

// Construct is any named element of the metamodel.
type Construct interface {
	Kind() Kind
	ConstructName() string
}

// Parameterized is a construct that owns parameter groups.
type Parameterized interface {
	Construct
	ParameterGroups() []*ParameterGroup
}

// SyntaxHints overrides the default syntax projection of a construct. Nil
// fields keep the default.
type SyntaxHints struct {
	ElementName    *string
	AttributeName  *string
	Wrapped        *bool
	AllowAttribute *bool
	AllowChild     *bool
	AllowTopLevel  *bool
}

// Extension is a named bundle of constructs sharing one namespace.
type Extension struct {
	Name         string
	Description  string
	NamespaceURI string
	Prefix       string
	FilePath     string

	Configurations      []*Configuration
	Operations          []*Operation
	Sources             []*Source
	ConnectionProviders []*ConnectionProvider
	Types               []*StructuralType
}

// Type returns the structural type declared under the given name.
func (e *Extension) Type(name string) (*StructuralType, bool) {
	for _, t := range e.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Subtypes returns the types extending the named type, in declaration order.
func (e *Extension) Subtypes(name string) []*StructuralType {
	var out []*StructuralType
	for _, t := range e.Types {
		if t.Extends == name {
			out = append(out, t)
		}
	}
	return out
}

// Component holds what every parameterized construct shares.
type Component struct {
	Name        string
	Description string
	Groups      []*ParameterGroup
	Syntax      *SyntaxHints
}

func (c *Component) ConstructName() string { return c.Name }

func (c *Component) ParameterGroups() []*ParameterGroup { return c.Groups }

// Parameter returns the named parameter from any of the component's groups.
func (c *Component) Parameter(name string) (*Parameter, bool) {
	for _, g := range c.Groups {
		for _, p := range g.Parameters {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// Configuration is a top-level component that may scope its own operations,
// sources and connection providers.
type Configuration struct {
	Component
	Operations          []*Operation
	Sources             []*Source
	ConnectionProviders []*ConnectionProvider
}

func (*Configuration) Kind() Kind { return KindConfiguration }

// Operation is an executable component.
type Operation struct{ Component }

func (*Operation) Kind() Kind { return KindOperation }

// Source is a message-producing component.
type Source struct{ Component }

func (*Source) Kind() Kind { return KindSource }

// ConnectionProvider supplies connections to the configuration declaring it.
type ConnectionProvider struct{ Component }

func (*ConnectionProvider) Kind() Kind { return KindConnectionProvider }

// ParameterGroup is an ordered set of parameters.
type ParameterGroup struct {
	Name        string
	Description string
	ShowInline  bool
	Parameters  []*Parameter
	Syntax      *SyntaxHints
}

func (*ParameterGroup) Kind() Kind              { return KindParameterGroup }
func (g *ParameterGroup) ConstructName() string { return g.Name }

// Parameter is a single input of a component, or a field of a structural type.
type Parameter struct {
	Name        string
	Description string
	Type        *Type
	Required    bool
	Default     *cty.Value
	Syntax      *SyntaxHints
}

func (*Parameter) Kind() Kind              { return KindParameter }
func (p *Parameter) ConstructName() string { return p.Name }

// StructuralType is a named object type declared by an extension.
type StructuralType struct {
	Name        string
	Description string
	Abstract    bool
	TopLevel    bool
	Extends     string
	Fields      []*Parameter
	Syntax      *SyntaxHints
}

func (*StructuralType) Kind() Kind              { return KindType }
func (t *StructuralType) ConstructName() string { return t.Name }

// Field returns the named field.
func (t *StructuralType) Field(name string) (*Parameter, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
