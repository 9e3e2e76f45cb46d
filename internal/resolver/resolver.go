package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/elementmodel/internal/appelement"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/elementmodel"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/syntax"
	"golang.org/x/sync/errgroup"
)

// Resolver turns application elements into element models.
type Resolver struct {
	extensions      []*metamodel.Extension
	syntaxes        map[*metamodel.Extension]syntax.Resolver
	syntaxOverrides map[string]syntax.Resolver
	maxDepth        int
	observer        Observer
}

// New creates a resolver over a fixed set of extensions. Every extension gets
// the default syntax resolver unless WithSyntaxResolvers names it.
func New(extensions []*metamodel.Extension, opts ...Option) *Resolver {
	r := &Resolver{
		extensions:      extensions,
		syntaxes:        make(map[*metamodel.Extension]syntax.Resolver, len(extensions)),
		syntaxOverrides: make(map[string]syntax.Resolver),
		maxDepth:        DefaultMaxDepth,
		observer:        noopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, ext := range extensions {
		if sx, ok := r.syntaxOverrides[ext.Name]; ok {
			r.syntaxes[ext] = sx
			continue
		}
		r.syntaxes[ext] = syntax.NewResolver(ext)
	}
	return r
}

// Extensions returns the extensions the resolver was created with.
func (r *Resolver) Extensions() []*metamodel.Extension {
	return r.extensions
}

// Syntax returns the syntax resolver used for an extension.
func (r *Resolver) Syntax(ext *metamodel.Extension) (syntax.Resolver, bool) {
	sx, ok := r.syntaxes[ext]
	return sx, ok
}

// Resolve binds an element to the construct it declares. The boolean is
// false when no extension construct or type matches the element.
func (r *Resolver) Resolve(ctx context.Context, el *appelement.Element) (*elementmodel.Model, bool) {
	start := time.Now()
	m, ok := r.resolveElement(ctx, el, 0)

	outcome := OutcomeUnmatched
	if ok {
		outcome = OutcomeConstruct
		if m.Construct().Kind() == metamodel.KindType {
			outcome = OutcomeType
		}
		m.Walk(func(n *elementmodel.Model) bool {
			r.observer.ConstructBound(n.Construct().Kind())
			return true
		})
	}
	r.observer.ResolutionFinished(outcome, time.Since(start))
	return m, ok
}

// ResolveAll resolves elements concurrently with at most workers goroutines
// (unbounded when workers <= 0). The result has one slot per input element,
// in input order; unmatched elements leave their slot nil. The only error is
// cancellation of ctx.
func (r *Resolver) ResolveAll(ctx context.Context, elements []*appelement.Element, workers int) ([]*elementmodel.Model, error) {
	models := make([]*elementmodel.Model, len(elements))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, el := range elements {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if m, ok := r.Resolve(gctx, el); ok {
				models[i] = m
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolution interrupted: %w", err)
	}
	return models, nil
}

func (r *Resolver) resolveElement(ctx context.Context, el *appelement.Element, depth int) (*elementmodel.Model, bool) {
	if el == nil {
		return nil, false
	}
	logger := ctxlog.FromContext(ctx)

	if depth > r.maxDepth {
		logger.Warn("Element nesting exceeds the maximum depth, skipping.",
			"element", el.Identifier.String(), "max_depth", r.maxDepth, "source", el.Source.String())
		return nil, false
	}

	ext, ok := r.extensionFor(el.Identifier.Namespace)
	if !ok {
		logger.Debug("No extension owns the element namespace.", "element", el.Identifier.String())
		return nil, false
	}
	sx := r.syntaxes[ext]

	c, d, ok := r.findConstruct(logger, ext, sx, el)
	if ok {
		logger.Debug("Element matched construct.",
			"element", el.Identifier.String(), "kind", c.Kind(), "construct", c.ConstructName())
		return r.bindComponent(ctx, sx, c, d, el, depth), true
	}

	for _, t := range ext.Types {
		td, err := sx.Resolve(t)
		if err != nil {
			logMalformed(logger, t, err)
			continue
		}
		if td.Matches(el) {
			logger.Debug("Element matched type.", "element", el.Identifier.String(), "type", t.Name)
			return elementmodel.NewBuilder(t, td).WithSource(el).Build(), true
		}
	}

	logger.Debug("Element matched nothing in its extension.",
		"element", el.Identifier.String(), "extension", ext.Name)
	return nil, false
}

// extensionFor returns the first extension declaring the namespace.
func (r *Resolver) extensionFor(namespace string) (*metamodel.Extension, bool) {
	for _, ext := range r.extensions {
		if ext.NamespaceURI == namespace {
			return ext, true
		}
	}
	return nil, false
}

// findConstruct walks the extension and returns the first component whose
// descriptor identifies the element.
func (r *Resolver) findConstruct(logger *slog.Logger, ext *metamodel.Extension, sx syntax.Resolver, el *appelement.Element) (metamodel.Parameterized, *syntax.Descriptor, bool) {
	var desc *syntax.Descriptor
	c, ok := metamodel.Find(ext, func(c metamodel.Construct) bool {
		if _, ok := c.(metamodel.Parameterized); !ok || !isComponent(c.Kind()) {
			return false
		}
		d, err := sx.Resolve(c)
		if err != nil {
			logMalformed(logger, c, err)
			return false
		}
		if !d.Matches(el) {
			return false
		}
		desc = d
		return true
	})
	if !ok {
		return nil, nil, false
	}
	return c.(metamodel.Parameterized), desc, true
}

func isComponent(k metamodel.Kind) bool {
	switch k {
	case metamodel.KindConfiguration, metamodel.KindOperation, metamodel.KindSource, metamodel.KindConnectionProvider:
		return true
	}
	return false
}

func (r *Resolver) bindComponent(ctx context.Context, sx syntax.Resolver, c metamodel.Parameterized, d *syntax.Descriptor, el *appelement.Element, depth int) *elementmodel.Model {
	b := elementmodel.NewBuilder(c, d).WithSource(el)
	r.bindParameters(ctx, sx, b, c.ParameterGroups(), el, depth)

	if cfg, ok := c.(*metamodel.Configuration); ok {
		if cp, ok := r.connectionProvider(ctx, sx, cfg, el, depth); ok {
			b.Containing(cp)
		}
	}
	return b.Build()
}

// bindParameters attaches inline groups first, then every parameter of the
// remaining groups in declaration order.
func (r *Resolver) bindParameters(ctx context.Context, sx syntax.Resolver, b *elementmodel.Builder, groups []*metamodel.ParameterGroup, el *appelement.Element, depth int) {
	logger := ctxlog.FromContext(ctx)

	for _, g := range groups {
		if !g.ShowInline {
			continue
		}
		gd, err := sx.Resolve(g)
		if err != nil {
			logMalformed(logger, g, err)
			continue
		}
		id, ok := gd.Identifier()
		if !ok {
			continue
		}
		groupEl, ok := el.FindInner(id)
		if !ok {
			continue
		}

		gb := elementmodel.NewBuilder(g, gd).WithSource(groupEl)
		for _, p := range g.Parameters {
			if m, ok := r.resolveParameter(ctx, sx, p, groupEl, depth); ok {
				gb.Containing(m)
			}
		}
		b.Containing(gb.Build())
	}

	for _, g := range groups {
		if g.ShowInline {
			continue
		}
		for _, p := range g.Parameters {
			if m, ok := r.resolveParameter(ctx, sx, p, el, depth); ok {
				b.Containing(m)
			}
		}
	}
}

// resolveParameter looks for a parameter value in scope: an attribute first,
// then a child element or a wrapper around a polymorphic element.
func (r *Resolver) resolveParameter(ctx context.Context, sx syntax.Resolver, p *metamodel.Parameter, scope *appelement.Element, depth int) (*elementmodel.Model, bool) {
	d, err := sx.Resolve(p)
	if err != nil {
		logMalformed(ctxlog.FromContext(ctx), p, err)
		return nil, false
	}
	return r.bindParameter(ctx, p, d, scope, depth)
}

func (r *Resolver) bindParameter(ctx context.Context, p *metamodel.Parameter, d *syntax.Descriptor, scope *appelement.Element, depth int) (*elementmodel.Model, bool) {
	if d.Wrapped {
		return r.resolveWrapped(ctx, p, d, scope, depth)
	}

	if d.SupportsAttributeDeclaration {
		if v, ok := scope.Attribute(d.AttributeName); ok {
			return elementmodel.NewBuilder(p, d).WithValue(v).Build(), true
		}
	}

	if !d.SupportsChildDeclaration {
		return nil, false
	}
	id, ok := d.Identifier()
	if !ok {
		return nil, false
	}
	child, ok := scope.FindInner(id)
	if !ok {
		return nil, false
	}

	b := elementmodel.NewBuilder(p, d).WithSource(child)
	claimed := r.bindFields(ctx, b, p, d, child, depth)
	for _, inner := range child.InnerComponents {
		if claimed[inner] {
			continue
		}
		if m, ok := r.resolveElement(ctx, inner, depth+1); ok {
			b.Containing(m)
			continue
		}
		if m, ok := collectionItem(p, d, inner); ok {
			b.Containing(m)
		}
	}
	return b.Build(), true
}

// bindFields binds the fields of an object value declared inline as a child
// element. It returns the inner elements claimed by a field binding.
func (r *Resolver) bindFields(ctx context.Context, b *elementmodel.Builder, p *metamodel.Parameter, d *syntax.Descriptor, el *appelement.Element, depth int) map[*appelement.Element]bool {
	if len(d.Children) == 0 || p.Type == nil || p.Type.Object == nil {
		return nil
	}
	if depth >= r.maxDepth {
		ctxlog.FromContext(ctx).Warn("Element nesting exceeds the maximum depth, skipping fields.",
			"element", el.Identifier.String(), "max_depth", r.maxDepth, "source", el.Source.String())
		return nil
	}

	claimed := make(map[*appelement.Element]bool)
	for _, f := range p.Type.Object.Fields {
		fd, ok := d.Child(f.Name)
		if !ok {
			continue
		}
		m, ok := r.bindParameter(ctx, f, fd, el, depth+1)
		if !ok {
			continue
		}
		if src, ok := m.Source(); ok {
			claimed[src] = true
		}
		b.Containing(m)
	}
	return claimed
}

func (r *Resolver) resolveWrapped(ctx context.Context, p *metamodel.Parameter, d *syntax.Descriptor, scope *appelement.Element, depth int) (*elementmodel.Model, bool) {
	id, ok := d.Identifier()
	if !ok {
		return nil, false
	}
	wrapper, ok := scope.FindInner(id)
	if !ok || !wrapper.HasInnerComponents() {
		return nil, false
	}

	inner, ok := r.resolveElement(ctx, wrapper.InnerComponents[0], depth+1)
	if !ok {
		ctxlog.FromContext(ctx).Debug("Wrapped element did not resolve, omitting parameter.",
			"parameter", p.Name, "element", wrapper.InnerComponents[0].Identifier.String())
		return nil, false
	}
	return elementmodel.NewBuilder(p, d).WithSource(wrapper).Containing(inner).Build(), true
}

// collectionItem matches an inner element of a collection against the item
// descriptor of the collection type.
func collectionItem(p *metamodel.Parameter, d *syntax.Descriptor, el *appelement.Element) (*elementmodel.Model, bool) {
	if !p.Type.IsCollection() || p.Type.Element == nil {
		return nil, false
	}
	item, ok := d.Generic(p.Type.Element.Key())
	if !ok || !item.Matches(el) {
		return nil, false
	}

	var c metamodel.Construct = p
	if obj := p.Type.Element.Object; obj != nil {
		c = obj
	}
	b := elementmodel.NewBuilder(c, item).WithSource(el)
	if item.SupportsAttributeDeclaration {
		if v, ok := el.Attribute(item.AttributeName); ok {
			b.WithValue(v)
		}
	}
	return b.Build(), true
}

// connectionProvider returns the first declared provider of the configuration
// that is present as an inner element and resolves.
func (r *Resolver) connectionProvider(ctx context.Context, sx syntax.Resolver, cfg *metamodel.Configuration, el *appelement.Element, depth int) (*elementmodel.Model, bool) {
	logger := ctxlog.FromContext(ctx)

	for _, cp := range cfg.ConnectionProviders {
		cd, err := sx.Resolve(cp)
		if err != nil {
			logMalformed(logger, cp, err)
			continue
		}
		id, ok := cd.Identifier()
		if !ok {
			continue
		}
		inner, ok := el.FindInner(id)
		if !ok {
			continue
		}
		if m, ok := r.resolveElement(ctx, inner, depth+1); ok {
			return m, true
		}
	}
	return nil, false
}

func logMalformed(logger *slog.Logger, c metamodel.Construct, err error) {
	logger.Warn("Construct has no usable syntax, omitting it.",
		"kind", c.Kind(), "construct", c.ConstructName(), "error", err)
}
