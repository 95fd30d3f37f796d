// Package metrics provides Prometheus metrics for rule evaluation,
// questionnaire sessions and the HTTP API.
//
// # Metrics
//
//   - lcm_rules_evaluations_total{amount_bucket}
//   - lcm_rules_evaluation_duration_seconds
//   - lcm_rules_requirements_count
//   - lcm_rules_assessments_total{risk_level,valid}
//   - lcm_rules_processing_days
//   - lcm_rules_fail_open_total{operation}
//   - lcm_sessions_created_total, lcm_sessions_completed_total,
//     lcm_sessions_expired_total, lcm_sessions_active
//   - lcm_http_requests_total{route,method,status}
//   - lcm_http_request_duration_seconds{route,method}
//
// # Usage
//
// A Collector satisfies both rules.Observer and questionnaire.Observer, so
// it is handed directly to the engine and the session store:
//
//	registry := prometheus.NewRegistry()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)
//	engine, _ := rules.NewEngine(cat, nil, logger, collector)
//	store := questionnaire.NewStore(questions, logger, collector)
//	collector.WatchSessions(store.Len)
//
//	router.Handle("/metrics", collector.Handler())
package metrics
