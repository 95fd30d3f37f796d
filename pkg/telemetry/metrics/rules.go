package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RulesMetrics tracks rule engine activity.
type RulesMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	requirementsCount  prometheus.Histogram
	assessmentsTotal   *prometheus.CounterVec
	processingDays     prometheus.Histogram
	failOpenTotal      *prometheus.CounterVec
}

// NewRulesMetrics creates and registers rule engine metrics.
func NewRulesMetrics(namespace string, registry *prometheus.Registry) *RulesMetrics {
	rm := &RulesMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "evaluations_total",
				Help:      "Total number of requirement evaluations by amount bucket",
			},
			[]string{"amount_bucket"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of requirement evaluation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		requirementsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "requirements_count",
				Help:      "Number of requirements produced per evaluation",
				Buckets:   []float64{0, 3, 5, 10, 15, 20, 30},
			},
		),

		assessmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "assessments_total",
				Help:      "Total number of summaries by risk level and validity",
			},
			[]string{"risk_level", "valid"},
		),

		processingDays: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "processing_days",
				Help:      "Estimated processing time in business days",
				Buckets:   []float64{5, 10, 15, 20, 25, 30, 40},
			},
		),

		failOpenTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "fail_open_total",
				Help:      "Total number of operations that recovered from an internal fault and returned a default result",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		rm.evaluationsTotal,
		rm.evaluationDuration,
		rm.requirementsCount,
		rm.assessmentsTotal,
		rm.processingDays,
		rm.failOpenTotal,
	)

	return rm
}

// RecordEvaluation records one requirement evaluation.
func (rm *RulesMetrics) RecordEvaluation(bucket string, count int, duration time.Duration) {
	rm.evaluationsTotal.WithLabelValues(bucket).Inc()
	rm.evaluationDuration.Observe(duration.Seconds())
	rm.requirementsCount.Observe(float64(count))
}

// RecordAssessment records one summary.
func (rm *RulesMetrics) RecordAssessment(risk, valid string, processingDays int) {
	rm.assessmentsTotal.WithLabelValues(risk, valid).Inc()
	rm.processingDays.Observe(float64(processingDays))
}

// RecordFailOpen records a recovered internal fault.
func (rm *RulesMetrics) RecordFailOpen(operation string) {
	rm.failOpenTotal.WithLabelValues(operation).Inc()
}
