// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file turns HCL documents into element trees.
//
// HCL has no namespaces of its own, so a document declares its prefixes in a
// top-level `namespaces` attribute and each block may carry a single label
// naming one of those prefixes:
//
//	namespaces = {
//	  http = "http://example.org/schema/http"
//	}
//
//	config "http" {
//	  address = "localhost"
//	  tls {
//	    trust-store { path = "ts.jks" }
//	  }
//	}
//
// An unlabeled block inherits the namespace of its parent. A top-level
// unlabeled block uses the `default` prefix when the document declares one.

package appelement

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

const (
	namespacesAttribute = "namespaces"
	defaultPrefix       = "default"
)

// ParseHCL parses an HCL document and returns its top-level elements in
// declaration order.
func ParseHCL(ctx context.Context, src []byte, filePath string) ([]*Element, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL document.", "file_path", filePath)

	file, diags := hclsyntax.ParseConfig(src, filePath, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported document body",
			Detail:   fmt.Sprintf("Expected a native HCL syntax body, got %T.", file.Body),
		}}
	}

	namespaces, nsDiags := decodeNamespaces(body)
	diags = append(diags, nsDiags...)
	if nsDiags.HasErrors() {
		return nil, diags
	}

	for name, attr := range body.Attributes {
		if name == namespacesAttribute {
			continue
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected top-level attribute",
			Detail:   fmt.Sprintf("Only the %q attribute may appear outside of an element block, found %q.", namespacesAttribute, name),
			Subject:  attr.SrcRange.Ptr(),
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}

	p := &hclDocument{filePath: filePath, namespaces: namespaces}
	parent := namespaces[defaultPrefix]

	elements := make([]*Element, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		el, blockDiags := p.element(block, parent)
		diags = append(diags, blockDiags...)
		if el != nil {
			elements = append(elements, el)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Parsed HCL document.", "file_path", filePath, "elements", len(elements))
	return elements, diags
}

type hclDocument struct {
	filePath   string
	namespaces map[string]string
}

func (p *hclDocument) element(block *hclsyntax.Block, parentNamespace string) (*Element, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	namespace := parentNamespace
	switch len(block.Labels) {
	case 0:
	case 1:
		uri, ok := p.namespaces[block.Labels[0]]
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Undeclared namespace prefix",
				Detail:   fmt.Sprintf("The prefix %q is not declared in the %q attribute.", block.Labels[0], namespacesAttribute),
				Subject:  block.LabelRanges[0].Ptr(),
			})
			return nil, diags
		}
		namespace = uri
	default:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Too many labels",
			Detail:   "An element block takes at most one label, its namespace prefix.",
			Subject:  block.DefRange().Ptr(),
		})
		return nil, diags
	}

	el := &Element{
		Identifier: Identifier{Name: block.Type, Namespace: namespace},
		Attributes: make(map[string]string, len(block.Body.Attributes)),
		Source:     &Location{FilePath: p.filePath, Line: block.TypeRange.Start.Line},
	}

	// Attribute order is irrelevant for matching, but sorting keeps the
	// diagnostics order stable.
	names := make([]string, 0, len(block.Body.Attributes))
	for name := range block.Body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := block.Body.Attributes[name]
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		str, err := hclutil.ValueString(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid attribute value",
				Detail:   fmt.Sprintf("Attribute %q cannot be used as element text: %s.", name, err),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		el.Attributes[name] = str
	}

	for _, inner := range block.Body.Blocks {
		child, childDiags := p.element(inner, namespace)
		diags = append(diags, childDiags...)
		if child != nil {
			el.InnerComponents = append(el.InnerComponents, child)
		}
	}

	return el, diags
}

func decodeNamespaces(body *hclsyntax.Body) (map[string]string, hcl.Diagnostics) {
	namespaces := make(map[string]string)
	attr, ok := body.Attributes[namespacesAttribute]
	if !ok {
		return namespaces, nil
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	if val.IsNull() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid namespaces declaration",
			Detail:   "The namespaces attribute must be an object mapping prefixes to namespace URIs.",
			Subject:  attr.SrcRange.Ptr(),
		}}
	}

	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() || !v.Type().Equals(cty.String) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid namespace URI",
				Detail:   fmt.Sprintf("The namespace URI for prefix %q must be a string.", k.AsString()),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		namespaces[k.AsString()] = v.AsString()
	}
	return namespaces, diags
}
