// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes extension manifests written in HCL.
//
// A manifest declares one or more `extension` blocks:
//
//	extension "http" {
//	  namespace = "http://example.org/schema/http"
//	  prefix    = "http"
//
//	  configuration "config" {
//	    parameter "address" {
//	      type     = string
//	      required = true
//	    }
//	    connection_provider "basic" {}
//	  }
//
//	  type "TrustStore" {
//	    top_level = true
//	    field "path" { type = string }
//	  }
//	}
//
// Parameters written directly inside a component are collected into the
// default "General" group. Any construct may carry a `syntax` block that
// overrides how it is written in documents.

package metamodel

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/iancoleman/strcase"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// manifestRootSchema expects one or more 'extension' blocks.
var manifestRootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "extension", LabelNames: []string{"name"}},
	},
}

var extensionBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "namespace"},
		{Name: "prefix"},
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "configuration", LabelNames: []string{"name"}},
		{Type: "operation", LabelNames: []string{"name"}},
		{Type: "source", LabelNames: []string{"name"}},
		{Type: "connection_provider", LabelNames: []string{"name"}},
		{Type: "type", LabelNames: []string{"name"}},
	},
}

var componentBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "parameter", LabelNames: []string{"name"}},
		{Type: "parameter_group", LabelNames: []string{"name"}},
		{Type: "syntax"},
	},
}

var configurationBodySchema = &hcl.BodySchema{
	Attributes: componentBodySchema.Attributes,
	Blocks: append(append([]hcl.BlockHeaderSchema{}, componentBodySchema.Blocks...),
		hcl.BlockHeaderSchema{Type: "operation", LabelNames: []string{"name"}},
		hcl.BlockHeaderSchema{Type: "source", LabelNames: []string{"name"}},
		hcl.BlockHeaderSchema{Type: "connection_provider", LabelNames: []string{"name"}},
	),
}

var groupBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "show_inline"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "parameter", LabelNames: []string{"name"}},
		{Type: "syntax"},
	},
}

var parameterBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually
		// to provide a better error message.
		{Name: "type"},
		{Name: "description"},
		{Name: "required"},
		{Name: "default"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "syntax"},
	},
}

var typeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "abstract"},
		{Name: "top_level"},
		{Name: "extends"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
		{Type: "syntax"},
	},
}

type syntaxBody struct {
	ElementName    *string `hcl:"element_name,optional"`
	AttributeName  *string `hcl:"attribute_name,optional"`
	Wrapped        *bool   `hcl:"wrapped,optional"`
	AllowAttribute *bool   `hcl:"allow_attribute,optional"`
	AllowChild     *bool   `hcl:"allow_child,optional"`
	AllowTopLevel  *bool   `hcl:"allow_top_level,optional"`
}

// ParseManifest decodes every extension declared in an HCL manifest file.
func ParseManifest(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Extension, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing extension manifest", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	content, diags := hclFile.Body.Content(manifestRootSchema)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	extensions := make([]*Extension, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		ext, extDiags := parseExtension(block, filePath)
		allDiags = append(allDiags, extDiags...)
		if ext != nil {
			extensions = append(extensions, ext)
		}
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed extension manifest", "file_path", filePath, "count", len(extensions))
	return extensions, allDiags
}

func parseExtension(block *hcl.Block, filePath string) (*Extension, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(extensionBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	ext := &Extension{
		Name:     block.Labels[0],
		FilePath: filePath,
	}

	nsAttr, exists := content.Attributes["namespace"]
	if !exists {
		missing := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'namespace' attribute",
			Detail:   fmt.Sprintf("Extension '%s' must declare the namespace URI its elements belong to.", ext.Name),
			Subject:  &missing,
		})
		return nil, diags
	}
	diags = append(diags, gohcl.DecodeExpression(nsAttr.Expr, nil, &ext.NamespaceURI)...)
	diags = append(diags, decodeOptional(content.Attributes, "prefix", &ext.Prefix)...)
	diags = append(diags, decodeOptional(content.Attributes, "description", &ext.Description)...)
	if ext.Prefix == "" {
		ext.Prefix = strcase.ToKebab(ext.Name)
	}

	names := newNameSet()
	for _, b := range content.Blocks {
		switch b.Type {
		case "configuration":
			cfg, d := parseConfiguration(b, names)
			diags = append(diags, d...)
			if cfg != nil {
				ext.Configurations = append(ext.Configurations, cfg)
			}
		case "operation":
			c, d := parseComponent(b, componentBodySchema, names)
			diags = append(diags, d...)
			if c != nil {
				ext.Operations = append(ext.Operations, &Operation{Component: *c})
			}
		case "source":
			c, d := parseComponent(b, componentBodySchema, names)
			diags = append(diags, d...)
			if c != nil {
				ext.Sources = append(ext.Sources, &Source{Component: *c})
			}
		case "connection_provider":
			c, d := parseComponent(b, componentBodySchema, names)
			diags = append(diags, d...)
			if c != nil {
				ext.ConnectionProviders = append(ext.ConnectionProviders, &ConnectionProvider{Component: *c})
			}
		case "type":
			t, d := parseStructuralType(b)
			diags = append(diags, d...)
			if t != nil {
				if _, dup := ext.Type(t.Name); dup {
					diags = append(diags, duplicateDiag("type", t.Name, b))
					continue
				}
				ext.Types = append(ext.Types, t)
			}
		}
	}

	diags = append(diags, linkExtension(ext, block)...)
	if diags.HasErrors() {
		return nil, diags
	}
	return ext, diags
}

func parseConfiguration(block *hcl.Block, names *nameSet) (*Configuration, hcl.Diagnostics) {
	c, diags := parseComponent(block, configurationBodySchema, names)
	if c == nil {
		return nil, diags
	}
	cfg := &Configuration{Component: *c}

	// Nested components are re-read from the same body; parseComponent only
	// consumed the parameter and syntax blocks. Each configuration is its own
	// naming scope.
	scope := newNameSet()
	content, _ := block.Body.Content(configurationBodySchema)
	for _, b := range content.Blocks {
		var nested *Component
		var d hcl.Diagnostics
		switch b.Type {
		case "operation", "source", "connection_provider":
			nested, d = parseComponent(b, componentBodySchema, scope)
			diags = append(diags, d...)
		default:
			continue
		}
		if nested == nil {
			continue
		}
		switch b.Type {
		case "operation":
			cfg.Operations = append(cfg.Operations, &Operation{Component: *nested})
		case "source":
			cfg.Sources = append(cfg.Sources, &Source{Component: *nested})
		case "connection_provider":
			cfg.ConnectionProviders = append(cfg.ConnectionProviders, &ConnectionProvider{Component: *nested})
		}
	}
	return cfg, diags
}

func parseComponent(block *hcl.Block, schema *hcl.BodySchema, names *nameSet) (*Component, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(schema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	name := block.Labels[0]
	if d := names.add(block.Type, name, block); d != nil {
		diags = append(diags, d)
	}

	c := &Component{Name: name}
	diags = append(diags, decodeOptional(content.Attributes, "description", &c.Description)...)

	var syntaxDiags hcl.Diagnostics
	c.Syntax, syntaxDiags = parseSyntaxHints(content.Blocks)
	diags = append(diags, syntaxDiags...)

	params := newNameSet()
	general := &ParameterGroup{Name: DefaultGroupName}
	var groups []*ParameterGroup
	for _, b := range content.Blocks {
		switch b.Type {
		case "parameter":
			p, d := parseParameter(b)
			diags = append(diags, d...)
			if p == nil {
				continue
			}
			if d := params.add("parameter", p.Name, b); d != nil {
				diags = append(diags, d)
				continue
			}
			general.Parameters = append(general.Parameters, p)
		case "parameter_group":
			g, d := parseGroup(b, params)
			diags = append(diags, d...)
			if g != nil {
				groups = append(groups, g)
			}
		}
	}

	if len(general.Parameters) > 0 {
		c.Groups = append(c.Groups, general)
	}
	c.Groups = append(c.Groups, groups...)
	return c, diags
}

func parseGroup(block *hcl.Block, params *nameSet) (*ParameterGroup, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(groupBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	g := &ParameterGroup{Name: block.Labels[0]}
	diags = append(diags, decodeOptional(content.Attributes, "description", &g.Description)...)
	diags = append(diags, decodeOptional(content.Attributes, "show_inline", &g.ShowInline)...)

	var syntaxDiags hcl.Diagnostics
	g.Syntax, syntaxDiags = parseSyntaxHints(content.Blocks)
	diags = append(diags, syntaxDiags...)

	for _, b := range content.Blocks.OfType("parameter") {
		p, d := parseParameter(b)
		diags = append(diags, d...)
		if p == nil {
			continue
		}
		if d := params.add("parameter", p.Name, b); d != nil {
			diags = append(diags, d)
			continue
		}
		g.Parameters = append(g.Parameters, p)
	}
	return g, diags
}

func parseParameter(block *hcl.Block) (*Parameter, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(parameterBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	name := block.Labels[0]
	typeAttr, exists := content.Attributes["type"]
	if !exists {
		missing := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'type' attribute",
			Detail:   fmt.Sprintf("The 'type' attribute is required for %s '%s'.", block.Type, name),
			Subject:  &missing,
		})
		return nil, diags
	}

	typ, typeDiags := ParseTypeExpr(typeAttr.Expr)
	diags = append(diags, typeDiags...)
	if typeDiags.HasErrors() {
		return nil, diags
	}

	p := &Parameter{Name: name, Type: typ}
	diags = append(diags, decodeOptional(content.Attributes, "description", &p.Description)...)
	diags = append(diags, decodeOptional(content.Attributes, "required", &p.Required)...)

	if defaultAttr, exists := content.Attributes["default"]; exists {
		// A nil eval context is used because defaults must be literal values.
		val, valDiags := defaultAttr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return nil, diags
		}
		if p.Required {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Conflicting default value",
				Detail:   fmt.Sprintf("The %s '%s' is required and cannot declare a default value.", block.Type, name),
				Subject:  defaultAttr.Expr.Range().Ptr(),
			})
			return nil, diags
		}
		if typ.IsPrimitive() && typ.Primitive != cty.DynamicPseudoType {
			converted, err := convert.Convert(val, typ.Primitive)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value type",
					Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type, '%s'.", name, typ.Primitive.FriendlyName()),
					Subject:  defaultAttr.Expr.Range().Ptr(),
				})
				return nil, diags
			}
			val = converted
		}
		p.Default = &val
	}

	var syntaxDiags hcl.Diagnostics
	p.Syntax, syntaxDiags = parseSyntaxHints(content.Blocks)
	diags = append(diags, syntaxDiags...)
	return p, diags
}

func parseStructuralType(block *hcl.Block) (*StructuralType, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	content, contentDiags := block.Body.Content(typeBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	t := &StructuralType{Name: block.Labels[0]}
	diags = append(diags, decodeOptional(content.Attributes, "description", &t.Description)...)
	diags = append(diags, decodeOptional(content.Attributes, "abstract", &t.Abstract)...)
	diags = append(diags, decodeOptional(content.Attributes, "top_level", &t.TopLevel)...)
	if attr, exists := content.Attributes["extends"]; exists {
		t.Extends = hcl.ExprAsKeyword(attr.Expr)
		if t.Extends == "" {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &t.Extends)...)
		}
	}

	var syntaxDiags hcl.Diagnostics
	t.Syntax, syntaxDiags = parseSyntaxHints(content.Blocks)
	diags = append(diags, syntaxDiags...)

	fields := newNameSet()
	for _, b := range content.Blocks.OfType("field") {
		f, d := parseParameter(b)
		diags = append(diags, d...)
		if f == nil {
			continue
		}
		if d := fields.add("field", f.Name, b); d != nil {
			diags = append(diags, d)
			continue
		}
		t.Fields = append(t.Fields, f)
	}
	return t, diags
}

func parseSyntaxHints(blocks hcl.Blocks) (*SyntaxHints, hcl.Diagnostics) {
	block, diags := hclutil.FindUniqueBlock(blocks, "syntax")
	if block == nil || diags.HasErrors() {
		return nil, diags
	}

	var body syntaxBody
	diags = append(diags, gohcl.DecodeBody(block.Body, nil, &body)...)
	if diags.HasErrors() {
		return nil, diags
	}
	return &SyntaxHints{
		ElementName:    body.ElementName,
		AttributeName:  body.AttributeName,
		Wrapped:        body.Wrapped,
		AllowAttribute: body.AllowAttribute,
		AllowChild:     body.AllowChild,
		AllowTopLevel:  body.AllowTopLevel,
	}, diags
}

// linkExtension resolves every object type reference against the
// extension's declared types.
func linkExtension(ext *Extension, block *hcl.Block) hcl.Diagnostics {
	var diags hcl.Diagnostics
	link := func(owner string, p *Parameter) {
		if err := p.Type.Link(ext); err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown type reference",
				Detail:   fmt.Sprintf("In extension '%s', %s '%s': %s.", ext.Name, owner, p.Name, err),
				Subject:  &block.DefRange,
			})
		}
	}

	Walk(ext, func(c Construct) bool {
		switch v := c.(type) {
		case *Parameter:
			link("parameter", v)
		case *StructuralType:
			if v.Extends != "" {
				if _, ok := ext.Type(v.Extends); !ok {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Unknown base type",
						Detail:   fmt.Sprintf("In extension '%s', type '%s' extends unknown type '%s'.", ext.Name, v.Name, v.Extends),
						Subject:  &block.DefRange,
					})
				}
			}
		}
		return true
	})
	return diags
}

func decodeOptional(attrs hcl.Attributes, name string, target any) hcl.Diagnostics {
	attr, exists := attrs[name]
	if !exists {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}

// nameSet detects duplicate declarations of the same kind within one scope.
type nameSet struct {
	seen map[string]struct{}
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{})}
}

func (n *nameSet) add(kind, name string, block *hcl.Block) *hcl.Diagnostic {
	key := kind + "/" + name
	if _, exists := n.seen[key]; exists {
		return duplicateDiag(kind, name, block)
	}
	n.seen[key] = struct{}{}
	return nil
}

func duplicateDiag(kind, name string, block *hcl.Block) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s definition", kind),
		Detail:   fmt.Sprintf("A %s named '%s' has already been defined.", kind, name),
		Subject:  &block.DefRange,
	}
}
