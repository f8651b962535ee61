// Package observability exposes the engine's lifecycle as Prometheus
// metrics. It adapts a metric set into domain.LifecycleHooks, so the
// controller stays free of any metrics dependency.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/drilldown/pkg/domain"
)

// Metrics holds the engine's Prometheus instruments.
type Metrics struct {
	stateEnters *prometheus.CounterVec
	stateLeaves *prometheus.CounterVec
	faults      *prometheus.CounterVec
	depth       prometheus.Histogram
}

// NewMetrics registers the engine metrics with the given registerer.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stateEnters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drilldown",
			Name:      "state_enters_total",
			Help:      "Committed navigations into a state.",
		}, []string{"state"}),
		stateLeaves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drilldown",
			Name:      "state_leaves_total",
			Help:      "Departures from a state triggered by user input.",
		}, []string{"state"}),
		faults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drilldown",
			Name:      "transition_faults_total",
			Help:      "Transition failures by state and phase.",
		}, []string{"state", "phase"}),
		depth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drilldown",
			Name:      "navigation_depth",
			Help:      "Breadcrumb depth observed on state entry.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
}

// Hooks adapts the metric set into controller lifecycle hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, ev *domain.StateEvent) {
			m.stateEnters.WithLabelValues(string(ev.State)).Inc()
			m.depth.Observe(float64(ev.Depth))
		},
		OnStateLeave: func(_ context.Context, ev *domain.StateEvent) {
			m.stateLeaves.WithLabelValues(string(ev.State)).Inc()
		},
		OnFault: func(_ context.Context, ev *domain.FaultEvent) {
			m.faults.WithLabelValues(string(ev.State), ev.Phase).Inc()
		},
	}
}
