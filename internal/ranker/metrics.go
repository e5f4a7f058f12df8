package ranker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// passDuration tracks the time taken for a full ranking pass.
	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ranking_pass_duration_seconds",
		Help:    "Time taken for a full order ranking pass",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	// candidateCount tracks the distribution of candidate restaurants per order.
	candidateCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ranking_candidates_per_order",
		Help:    "Number of candidate restaurants per ranked order",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	// degradedAddresses counts addresses degraded to unresolved by transient failures.
	degradedAddresses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ranking_degraded_addresses_total",
		Help: "Addresses degraded to unresolved within ranking passes",
	})
)

// MetricsRecorder provides methods to record ranking metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordPassDuration records the duration of one ranking pass.
func (m *MetricsRecorder) RecordPassDuration(d time.Duration) {
	passDuration.Observe(d.Seconds())
}

// RecordCandidateCount records the candidate count of one ranked order.
func (m *MetricsRecorder) RecordCandidateCount(n int) {
	candidateCount.Observe(float64(n))
}

// RecordDegradedAddress records one address degraded to unresolved.
func (m *MetricsRecorder) RecordDegradedAddress() {
	degradedAddresses.Inc()
}
