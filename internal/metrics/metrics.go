// Package metrics holds the Prometheus collectors shared by the host
// collectors and the aggregator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	CollectorRuntime = "runtime"
	CollectorSystemd = "systemd"
)

var (
	// CollectorDegraded counts per-entity sub-queries that fell back to a default.
	CollectorDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serverdash_collector_degraded_total",
			Help: "Total number of collector sub-queries that returned a degraded default",
		},
		[]string{"collector", "query"},
	)

	// CollectorFailures counts whole-collection failures.
	CollectorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serverdash_collector_failures_total",
			Help: "Total number of collector enumerations that failed outright",
		},
		[]string{"collector"},
	)

	// CollectorDropped counts entities omitted from a listing.
	CollectorDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "serverdash_collector_dropped_total",
			Help: "Total number of entities dropped from a listing because they could not be inspected",
		},
		[]string{"collector"},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "serverdash_aggregation_duration_seconds",
			Help:    "Service aggregation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"filter", "detail"},
	)
)

// Degraded records a degraded sub-query.
func Degraded(collector, query string) {
	CollectorDegraded.WithLabelValues(collector, query).Inc()
}
