package elementmodel

import (
	"github.com/specialistvlad/elementmodel/internal/appelement"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/syntax"
)

// Builder accumulates a Model. It performs no validation; the resolver that
// drives it is responsible for the shape of the tree.
type Builder struct {
	construct metamodel.Construct
	syntax    *syntax.Descriptor
	source    *appelement.Element
	value     *string
	children  []*Model
}

// NewBuilder starts a model for the given construct and its descriptor.
func NewBuilder(c metamodel.Construct, d *syntax.Descriptor) *Builder {
	return &Builder{construct: c, syntax: d}
}

// WithSource records the element the construct was matched against.
func (b *Builder) WithSource(el *appelement.Element) *Builder {
	b.source = el
	return b
}

// WithValue records the attribute text the construct was bound from.
func (b *Builder) WithValue(v string) *Builder {
	b.value = &v
	return b
}

// Containing appends a nested model.
func (b *Builder) Containing(child *Model) *Builder {
	if child != nil {
		b.children = append(b.children, child)
	}
	return b
}

// Build returns the finished model. The builder may keep being used; later
// changes do not affect models already built.
func (b *Builder) Build() *Model {
	m := &Model{
		construct: b.construct,
		syntax:    b.syntax,
		source:    b.source,
		value:     b.value,
	}
	if len(b.children) > 0 {
		m.children = make([]*Model, len(b.children))
		copy(m.children, b.children)
	}
	return m
}
