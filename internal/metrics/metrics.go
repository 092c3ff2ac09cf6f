// Package metrics exposes Prometheus collectors for the clustering
// controller.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mapcluster"

// Metrics groups the controller's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	triggers            *prometheus.CounterVec
	coalesced           prometheus.Counter
	stale               prometheus.Counter
	computationDuration prometheus.Histogram
	diffClusters        *prometheus.CounterVec
	displayedClusters   prometheus.Gauge
	annotations         prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Clustering triggers received, by reason",
		}, []string{"reason"}),
		coalesced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_triggers_total",
			Help:      "Triggers folded into an already pending pass",
		}),
		stale: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_computations_total",
			Help:      "Computation results discarded because a newer pass superseded them",
		}),
		computationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Duration of background clustering passes",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		diffClusters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diff_clusters_total",
			Help:      "Clusters in applied diffs, by kind (added, removed, kept)",
		}, []string{"kind"}),
		displayedClusters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "displayed_clusters",
			Help:      "Clusters currently displayed",
		}),
		annotations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "annotations",
			Help:      "Annotations currently retained",
		}),
	}
}

func (m *Metrics) Trigger(reason string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(reason).Inc()
}

func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

func (m *Metrics) Stale() {
	if m == nil {
		return
	}
	m.stale.Inc()
}

func (m *Metrics) ObserveComputation(d time.Duration) {
	if m == nil {
		return
	}
	m.computationDuration.Observe(d.Seconds())
}

// ObserveDiff records one applied diff and the resulting display size.
func (m *Metrics) ObserveDiff(added, removed, kept, displayed int) {
	if m == nil {
		return
	}
	m.diffClusters.WithLabelValues("added").Add(float64(added))
	m.diffClusters.WithLabelValues("removed").Add(float64(removed))
	m.diffClusters.WithLabelValues("kept").Add(float64(kept))
	m.displayedClusters.Set(float64(displayed))
}

func (m *Metrics) SetAnnotations(n int) {
	if m == nil {
		return
	}
	m.annotations.Set(float64(n))
}
