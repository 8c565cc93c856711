package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for IndexComputations.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for index computation.
type Metrics struct {
	IndexComputations  *prometheus.CounterVec   // labels: region, outcome={success,error}
	IndexDuration      *prometheus.HistogramVec // labels: region
	GridNormalizations prometheus.Counter
	FieldLoaded        prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IndexComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sst",
			Name:      "index_computations_total",
			Help:      "Index computations by region and outcome.",
		}, []string{"region", "outcome"}),
		IndexDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sst",
			Name:      "index_computation_duration_seconds",
			Help:      "Duration of a single index computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"region"}),
		GridNormalizations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst",
			Name:      "grid_normalizations_total",
			Help:      "Times an SST field was re-arranged onto [0,360] x [-90,90].",
		}),
		FieldLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sst",
			Name:      "field_loaded",
			Help:      "1 once the SST field is loaded into memory, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.IndexComputations,
		m.IndexDuration,
		m.GridNormalizations,
		m.FieldLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IndexComputations:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sst", Name: "index_computations_total"}, []string{"region", "outcome"}),
		IndexDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "sst", Name: "index_computation_duration_seconds"}, []string{"region"}),
		GridNormalizations: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sst", Name: "grid_normalizations_total"}),
		FieldLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "sst", Name: "field_loaded"}),
	}
}
