// Package metrics exposes the service's Prometheus collectors. All
// collectors are registered on the default registry at init time and
// served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationRuns counts insight generation runs by outcome
	// (success, empty, error).
	GenerationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_insight_generation_runs_total",
			Help: "Total number of insight generation runs by outcome.",
		},
		[]string{"status"},
	)

	// InsightsGenerated counts persisted insights by domain.
	InsightsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_insights_generated_total",
			Help: "Total number of insights persisted, labeled by domain.",
		},
		[]string{"domain"},
	)

	// GenerationDuration tracks how long a full generation run takes,
	// including the delete, reload, and persist phases.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finsight_insight_generation_duration_seconds",
			Help:    "Duration of insight generation runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTPRequests counts handled HTTP requests by route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_http_requests_total",
			Help: "Total number of HTTP requests by route, method, and status code.",
		},
		[]string{"route", "method", "status"},
	)
)
