// Package server exposes the rules engine and the questionnaire store over
// HTTP.
//
// # Routes
//
//	GET    /health                                liveness
//	GET    /ready                                 readiness (catalog, session capacity)
//	GET    /version                               build information
//	GET    /metrics                               Prometheus, when enabled
//	GET    /v1/questions                          question set
//	GET    /v1/catalog                            catalog metadata and table keys
//	POST   /v1/evaluate                           answer set in, report out
//	POST   /v1/sessions                           start a questionnaire session
//	GET    /v1/sessions/{id}                      session view
//	DELETE /v1/sessions/{id}                      discard a session
//	PUT    /v1/sessions/{id}/answers/{questionID} record an answer
//	POST   /v1/sessions/{id}/next                 validate and advance
//	POST   /v1/sessions/{id}/previous             step back
//	POST   /v1/sessions/{id}/reset                clear answers
//	GET    /v1/sessions/{id}/report               report for the current answers
//
// Errors are written as {"error": code, "error_description": message}.
//
// # Middleware
//
// Requests pass through, outermost first: request ID, tracing, logging,
// recovery, metrics and body size limiting. The request ID is taken from the
// X-Request-ID header when present and is added to every log record emitted
// with the request context. With tracing enabled each request gets a server
// span named after its route, continuing any incoming traceparent, and the
// trace ID is echoed in X-Trace-ID.
//
// # Lifecycle
//
// Start blocks until the context is cancelled or Shutdown is called, then
// drains in-flight requests for up to the configured shutdown timeout.
// Signal handling is left to the caller.
package server
