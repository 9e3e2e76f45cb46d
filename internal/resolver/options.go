package resolver

import (
	"time"

	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/syntax"
)

// DefaultMaxDepth bounds the recursive descent into nested elements.
const DefaultMaxDepth = 128

// Outcome classifies the result of a top-level resolution.
type Outcome string

const (
	OutcomeConstruct Outcome = "construct"
	OutcomeType      Outcome = "type"
	OutcomeUnmatched Outcome = "unmatched"
)

// Observer receives resolution events, typically to record metrics.
// Implementations must be safe for concurrent use.
type Observer interface {
	ResolutionFinished(outcome Outcome, elapsed time.Duration)
	ConstructBound(kind metamodel.Kind)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSyntaxResolvers replaces the default syntax resolver of the named
// extensions.
func WithSyntaxResolvers(byExtension map[string]syntax.Resolver) Option {
	return func(r *Resolver) {
		for name, sx := range byExtension {
			r.syntaxOverrides[name] = sx
		}
	}
}

// WithMaxDepth sets the maximum nesting depth the resolver descends into.
// Deeper elements are left out of the result.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithObserver registers an observer for resolution events.
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		if o != nil {
			r.observer = o
		}
	}
}

type noopObserver struct{}

func (noopObserver) ResolutionFinished(Outcome, time.Duration) {}
func (noopObserver) ConstructBound(metamodel.Kind)             {}
