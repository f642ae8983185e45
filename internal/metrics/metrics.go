package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine collectors, registered on the default registry and exposed by the
// API server's /metrics endpoint.
var (
	EnginePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outreach_engine_passes_total",
		Help: "Number of batch passes executed.",
	})

	EnrollmentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outreach_enrollments_processed_total",
		Help: "Enrollments processed per pass outcome.",
	}, []string{"outcome"})

	PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "outreach_engine_pass_duration_seconds",
		Help:    "Duration of batch passes.",
		Buckets: prometheus.DefBuckets,
	})
)
