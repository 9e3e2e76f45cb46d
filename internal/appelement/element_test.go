package appelement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementAccessors(t *testing.T) {
	tls := &Element{Identifier: Identifier{Name: "tls", Namespace: "ns"}}
	el := &Element{
		Identifier:      Identifier{Name: "cfg", Namespace: "ns"},
		Attributes:      map[string]string{"address": "localhost"},
		InnerComponents: []*Element{tls},
	}

	v, ok := el.Attribute("address")
	assert.True(t, ok)
	assert.Equal(t, "localhost", v)

	_, ok = el.Attribute("missing")
	assert.False(t, ok)

	found, ok := el.FindInner(Identifier{Name: "tls", Namespace: "ns"})
	assert.True(t, ok)
	assert.Same(t, tls, found)

	_, ok = el.FindInner(Identifier{Name: "tls", Namespace: "other"})
	assert.False(t, ok)

	assert.True(t, el.HasInnerComponents())
	assert.False(t, tls.HasInnerComponents())
}

func TestElementAccessors_NilElement(t *testing.T) {
	var el *Element
	_, ok := el.Attribute("a")
	assert.False(t, ok)
	_, ok = el.FindInner(Identifier{Name: "x"})
	assert.False(t, ok)
	assert.False(t, el.HasInnerComponents())
}

func TestIdentifierString(t *testing.T) {
	assert.Equal(t, "{urn:x}cfg", Identifier{Name: "cfg", Namespace: "urn:x"}.String())
	assert.Equal(t, "cfg", Identifier{Name: "cfg"}.String())
}
