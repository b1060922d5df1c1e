package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContentTransitions counts content status transitions by content type and target status.
	ContentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_content_transitions_total",
		Help: "Total number of content status transitions by type and target status",
	}, []string{"content_type", "status"})

	// MediaUploads counts media uploads by classified type.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_media_uploads_total",
		Help: "Total number of media uploads by media type",
	}, []string{"media_type"})

	// MediaProbeFailures counts image dimension probe failures.
	MediaProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_media_probe_failures_total",
		Help: "Total number of image dimension probe failures (ignored, never fatal)",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// CacheResults counts cache-aside lookups by key prefix and outcome.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cache_results_total",
		Help: "Total cache-aside lookups by key prefix and hit/miss outcome",
	}, []string{"prefix", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
