package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	AwardsCreated          prometheus.Counter
	AssertionsServed       *prometheus.CounterVec
	RevocationCheckSeconds prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AwardsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badgehub_awards_created_total",
			Help: "Total number of awards created",
		}),
		AssertionsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "badgehub_assertions_served_total",
			Help: "Assertion lookups by outcome",
		}, []string{"outcome"}),
		RevocationCheckSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "badgehub_revocation_check_seconds",
			Help:    "Latency of award revocation checks",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncAwardsCreated() {
	if m == nil {
		return
	}
	m.AwardsCreated.Inc()
}

func (m *Metrics) IncAssertionsServed(outcome string) {
	if m == nil {
		return
	}
	m.AssertionsServed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRevocationCheck(d time.Duration) {
	if m == nil {
		return
	}
	m.RevocationCheckSeconds.Observe(d.Seconds())
}
