// Package metrics exposes Prometheus counters for synthesis and exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure kinds used as the "kind" label.
const (
	KindTransient  = "transient"
	KindCredential = "credential"
	KindMalformed  = "malformed"
	KindCancelled  = "cancelled"
	KindFatal      = "fatal"
)

// Metrics contains all Prometheus metrics for the narrator.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SynthesisAttempts *prometheus.CounterVec
	SynthesisRetries  prometheus.Counter
	SynthesisFailures *prometheus.CounterVec
	SynthesisDuration *prometheus.HistogramVec

	BlocksGenerated prometheus.Counter
	BlocksFailed    prometheus.Counter

	Exports *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SynthesisAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_synthesis_attempts_total",
			Help: "Total number of speech synthesis attempts",
		}, []string{"provider"}),
		SynthesisRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_synthesis_retries_total",
			Help: "Total number of synthesis retries after a transient failure",
		}),
		SynthesisFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_synthesis_failures_total",
			Help: "Total number of failed synthesis attempts by kind",
		}, []string{"kind"}),
		SynthesisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "narrator_synthesis_duration_seconds",
			Help:    "Latency of one synthesis attempt",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~1 minute
		}, []string{"provider"}),

		BlocksGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_blocks_generated_total",
			Help: "Total number of blocks with committed audio",
		}),
		BlocksFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "narrator_blocks_failed_total",
			Help: "Total number of blocks whose generation failed",
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "narrator_exports_total",
			Help: "Total number of exports by format",
		}, []string{"format"}),
	}
}

// ObserveAttempt records one synthesis attempt and its latency.
func (m *Metrics) ObserveAttempt(provider string, d time.Duration) {
	if m == nil {
		return
	}
	m.SynthesisAttempts.WithLabelValues(provider).Inc()
	m.SynthesisDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveRetry records a scheduled retry.
func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.SynthesisRetries.Inc()
}

// ObserveFailure records a failed attempt of the given kind.
func (m *Metrics) ObserveFailure(kind string) {
	if m == nil {
		return
	}
	m.SynthesisFailures.WithLabelValues(kind).Inc()
}

// ObserveBlock records the final outcome of one block.
func (m *Metrics) ObserveBlock(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.BlocksGenerated.Inc()
	} else {
		m.BlocksFailed.Inc()
	}
}

// ObserveExport records a finished export ("wav", "zip", "mp3").
func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(format).Inc()
}
