// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sourceHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flexster",
		Name:      "source_hits_total",
		Help:      "Total number of lookups answered by each metadata source",
	}, []string{"source"})
	sourceMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flexster",
		Name:      "source_misses_total",
		Help:      "Total number of lookups with no usable answer by source",
	}, []string{"source"})
	sourceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flexster",
		Name:      "source_errors_total",
		Help:      "Total number of failed lookups by source",
	}, []string{"source"})
	resolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flexster",
		Name:      "resolve_duration_seconds",
		Help:      "Histogram of end-to-end per-query resolution durations",
		Buckets:   prometheus.ExponentialBuckets(0.5, 1.8, 10), // paced lookups run seconds, not millis
	})
	recordsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flexster",
		Name:      "records_resolved_total",
		Help:      "Total number of queries resolved to a track record",
	})
	recordsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "flexster",
		Name:      "records_failed_total",
		Help:      "Total number of queries that resolved to nothing",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sourceHits, sourceMisses, sourceErrors,
			resolveDuration, recordsResolved, recordsFailed)
	})
}

// Source lookup outcome helpers
func IncSourceHit(source string)   { sourceHits.WithLabelValues(source).Inc() }
func IncSourceMiss(source string)  { sourceMisses.WithLabelValues(source).Inc() }
func IncSourceError(source string) { sourceErrors.WithLabelValues(source).Inc() }

// Record lifecycle helpers
func IncRecordResolved() { recordsResolved.Inc() }
func IncRecordFailed()   { recordsFailed.Inc() }
func ObserveResolveDuration(d time.Duration) {
	resolveDuration.Observe(d.Seconds())
}
