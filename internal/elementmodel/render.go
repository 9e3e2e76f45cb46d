package elementmodel

import (
	"bytes"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Render writes the tree as HCL. Each node becomes a block named after the
// construct kind and labeled with the construct name; the matched element and
// the bound attribute value are written as attributes.
//
//	configuration "config" {
//	  element = "{urn:http}cfg"
//	  parameter "address" {
//	    value = "localhost"
//	  }
//	}
func (m *Model) Render(w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	m.appendTo(f.Body())
	_, err := w.Write(f.Bytes())
	return err
}

// String returns the rendered tree.
func (m *Model) String() string {
	var buf bytes.Buffer
	_ = m.Render(&buf)
	return buf.String()
}

func (m *Model) appendTo(body *hclwrite.Body) {
	block := body.AppendNewBlock(string(m.construct.Kind()), []string{m.construct.ConstructName()})
	inner := block.Body()
	if el, ok := m.Source(); ok {
		inner.SetAttributeValue("element", cty.StringVal(el.Identifier.String()))
	}
	if v, ok := m.Value(); ok {
		inner.SetAttributeValue("value", cty.StringVal(v))
	}
	for _, c := range m.children {
		c.appendTo(inner)
	}
}
