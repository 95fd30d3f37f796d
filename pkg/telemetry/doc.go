// Package telemetry groups the observability packages of lcm.
//
// # Components
//
//   - logging: slog construction with request and session IDs from context
//   - metrics: Prometheus collectors for evaluations, sessions and HTTP
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
//
// Each component is configured from the telemetry section of config.Config
// and is optional except logging. The rules engine and session store report
// through small observer interfaces, so they never import these packages.
package telemetry
