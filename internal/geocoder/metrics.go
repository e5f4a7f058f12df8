package geocoder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// geocodeRequests tracks outbound geocoder calls by outcome.
	geocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geocoder_requests_total",
		Help: "Total number of geocoder provider calls by outcome",
	}, []string{"outcome"}) // outcome: resolved, unresolved, transport_error, malformed

	// geocodeDuration tracks provider call latency.
	geocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geocoder_request_duration_seconds",
		Help:    "Time taken for geocoder provider calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// coordinateCacheHits tracks coordinate cache hits.
	coordinateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geocoder_cache_hits_total",
		Help: "Total number of coordinate cache hits",
	})

	// coordinateCacheMisses tracks coordinate cache misses.
	coordinateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geocoder_cache_misses_total",
		Help: "Total number of coordinate cache misses",
	})

	// coordinateCacheSize tracks the number of cached addresses.
	coordinateCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "geocoder_cache_entries",
		Help: "Number of addresses held in the coordinate cache",
	})
)

// MetricsRecorder provides methods to record geocoder metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordRequest records one provider call with its outcome and duration.
func (m *MetricsRecorder) RecordRequest(outcome string, duration time.Duration) {
	geocodeRequests.WithLabelValues(outcome).Inc()
	geocodeDuration.Observe(duration.Seconds())
}

// RecordCacheHit records a coordinate cache hit.
func (m *MetricsRecorder) RecordCacheHit() {
	coordinateCacheHits.Inc()
}

// RecordCacheMiss records a coordinate cache miss.
func (m *MetricsRecorder) RecordCacheMiss() {
	coordinateCacheMisses.Inc()
}

// RecordCacheSize records the current cache size.
func (m *MetricsRecorder) RecordCacheSize(n int) {
	coordinateCacheSize.Set(float64(n))
}
