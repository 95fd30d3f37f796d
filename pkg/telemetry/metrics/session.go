package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics tracks questionnaire sessions.
type SessionMetrics struct {
	created   prometheus.Counter
	completed prometheus.Counter
	expired   prometheus.Counter

	watchOnce sync.Once
}

// NewSessionMetrics creates and registers session metrics.
func NewSessionMetrics(namespace string, registry *prometheus.Registry) *SessionMetrics {
	sm := &SessionMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Total number of questionnaire sessions started",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "completed_total",
			Help:      "Total number of questionnaire sessions completed",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "expired_total",
			Help:      "Total number of sessions removed after idling",
		}),
	}

	registry.MustRegister(sm.created, sm.completed, sm.expired)
	return sm
}

func (sm *SessionMetrics) watchActive(namespace string, registry *prometheus.Registry, count func() int) {
	sm.watchOnce.Do(func() {
		registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "sessions",
				Name:      "active",
				Help:      "Number of questionnaire sessions currently stored",
			},
			func() float64 { return float64(count()) },
		))
	})
}
