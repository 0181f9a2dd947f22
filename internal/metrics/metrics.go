// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for AnalysesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// AnalysesTotal counts analysis requests by provider and outcome.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "midad_analyses_total",
			Help: "Total number of document analyses",
		},
		[]string{"provider", "outcome"},
	)

	// AnalysisFailures counts failures by kind (encoding, configuration, provider, malformed).
	AnalysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "midad_analysis_failures_total",
			Help: "Analysis failures by kind",
		},
		[]string{"kind"},
	)

	// AnalysisDuration observes end-to-end analysis latency.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "midad_analysis_duration_seconds",
			Help:    "Time spent encoding, calling the model and normalizing",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider"},
	)

	// HistoryItems reports the number of stored history items after the last write.
	HistoryItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "midad_history_items",
			Help: "Current number of history items",
		},
	)
)

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(provider string, started time.Time, failureKind string) {
	AnalysisDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
	if failureKind == "" {
		AnalysesTotal.WithLabelValues(provider, OutcomeSuccess).Inc()
		return
	}
	AnalysesTotal.WithLabelValues(provider, OutcomeFailure).Inc()
	AnalysisFailures.WithLabelValues(failureKind).Inc()
}
