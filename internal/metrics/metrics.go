// Package metrics records resolver activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/resolver"
)

// Recorder implements resolver.Observer on a private registry, so several
// recorders never collide on metric names.
type Recorder struct {
	registry *prometheus.Registry

	resolutionsTotal  *prometheus.CounterVec
	bindingsTotal     *prometheus.CounterVec
	resolutionSeconds prometheus.Histogram
}

var _ resolver.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		resolutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elementmodel_resolutions_total",
			Help: "Top-level resolutions by outcome.",
		}, []string{"outcome"}),
		bindingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elementmodel_bindings_total",
			Help: "Element model nodes produced, by construct kind.",
		}, []string{"kind"}),
		resolutionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "elementmodel_resolution_seconds",
			Help:    "Time spent resolving a top-level element.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	r.registry.MustRegister(r.resolutionsTotal, r.bindingsTotal, r.resolutionSeconds)
	return r
}

// ResolutionFinished implements resolver.Observer.
func (r *Recorder) ResolutionFinished(outcome resolver.Outcome, elapsed time.Duration) {
	r.resolutionsTotal.WithLabelValues(string(outcome)).Inc()
	r.resolutionSeconds.Observe(elapsed.Seconds())
}

// ConstructBound implements resolver.Observer.
func (r *Recorder) ConstructBound(kind metamodel.Kind) {
	r.bindingsTotal.WithLabelValues(string(kind)).Inc()
}

// WriteText writes every metric in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
