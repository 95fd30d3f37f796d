package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/rules"
)

// Collector owns every metric of the service and the registry they are
// registered with.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	rulesMetrics   *RulesMetrics
	sessionMetrics *SessionMetrics
	requestMetrics *RequestMetrics
}

// NewCollector creates the collector and registers its metrics. A nil
// registry creates a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := config.DefaultMetricsNamespace
	if cfg != nil && cfg.Namespace != "" {
		namespace = cfg.Namespace
	}

	return &Collector{
		namespace:      namespace,
		registry:       registry,
		rulesMetrics:   NewRulesMetrics(namespace, registry),
		sessionMetrics: NewSessionMetrics(namespace, registry),
		requestMetrics: NewRequestMetrics(namespace, registry),
	}
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RequirementsEvaluated implements rules.Observer.
func (c *Collector) RequirementsEvaluated(bucket string, count int, duration time.Duration) {
	c.rulesMetrics.RecordEvaluation(bucket, count, duration)
}

// Assessed implements rules.Observer.
func (c *Collector) Assessed(risk rules.RiskLevel, valid bool, processingDays int) {
	c.rulesMetrics.RecordAssessment(string(risk), strconv.FormatBool(valid), processingDays)
}

// FailedOpen implements rules.Observer.
func (c *Collector) FailedOpen(operation string) {
	c.rulesMetrics.RecordFailOpen(operation)
}

// SessionCreated implements questionnaire.Observer.
func (c *Collector) SessionCreated() {
	c.sessionMetrics.created.Inc()
}

// SessionCompleted implements questionnaire.Observer.
func (c *Collector) SessionCompleted() {
	c.sessionMetrics.completed.Inc()
}

// SessionsExpired implements questionnaire.Observer.
func (c *Collector) SessionsExpired(n int) {
	c.sessionMetrics.expired.Add(float64(n))
}

// WatchSessions exposes the number of live sessions as a gauge read from
// count at scrape time. It may be called once.
func (c *Collector) WatchSessions(count func() int) {
	c.sessionMetrics.watchActive(c.namespace, c.registry, count)
}

// RecordRequest records a served HTTP request.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.requestMetrics.RecordRequest(route, method, strconv.Itoa(status), duration)
}
