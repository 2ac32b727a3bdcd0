package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// HTTP
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Matching
	Lookups       *prometheus.CounterVec
	MatchDistance *prometheus.HistogramVec

	// Catalog
	CatalogEntries  prometheus.Gauge
	CoverageMean    prometheus.Gauge
	CoverageMissing prometheus.Gauge
}

// Lookup outcomes.
const (
	OutcomeHit      = "hit"      // an acceptable bunny was found
	OutcomeFallback = "fallback" // nothing within threshold, closest shown anyway
	OutcomeDirect   = "direct"   // a bunny asked for by filename, nothing was matched
	OutcomeMiss     = "miss"     // filename or zone not found
	OutcomeError    = "error"
)

// InitMetrics registers the collectors on registry, or on the default
// registerer when nil. Each call builds a fresh set of collectors.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	// requests are sub-millisecond unless the catalog is huge
	latencyBuckets := []float64{
		0.00001, // 10µs
		0.00005, // 50µs
		0.0001,  // 100µs
		0.0005,  // 500µs
		0.001,   // 1ms
		0.005,   // 5ms
		0.01,    // 10ms
		0.05,    // 50ms
		0.1,     // 100ms
	}

	m := &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnuuy_http_requests_total",
				Help: "HTTP requests served, by route and status code",
			},
			[]string{"route", "code"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bnuuy_http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests",
				Buckets: latencyBuckets,
			},
			[]string{"route"},
		),

		Lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnuuy_lookups_total",
				Help: "Catalog lookups, by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		MatchDistance: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bnuuy_match_distance_degrees",
				Help:    "Combined angular distance of the bunny shown for a time",
				Buckets: []float64{0, 5, 10, 15, 20, 30, 45, 60, 90, 180, 360},
			},
			[]string{"operation"},
		),

		CatalogEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bnuuy_catalog_entries",
				Help: "Number of bunnies in the loaded catalog",
			},
		),

		CoverageMean: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bnuuy_coverage_mean_discrepancy_degrees",
				Help: "Mean closest-match distance over the coverage grid",
			},
		),

		CoverageMissing: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bnuuy_coverage_uncovered_slots",
				Help: "Coverage grid slots with no bunny within threshold",
			},
		),
	}

	return m
}

// ObserveLookup counts a lookup and, for matches, records its distance.
func (m *Metrics) ObserveLookup(operation, outcome string, distance float64) {
	m.Lookups.WithLabelValues(operation, outcome).Inc()
	if outcome == OutcomeHit || outcome == OutcomeFallback {
		m.MatchDistance.WithLabelValues(operation).Observe(distance)
	}
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveWithLabels records the elapsed time to a histogram with labels.
func (t *Timer) ObserveWithLabels(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
