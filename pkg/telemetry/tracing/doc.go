// Package tracing provides OpenTelemetry tracing for the conditions matrix
// service.
//
// A Tracer is built from config.TracingConfig. When tracing is disabled the
// Tracer hands out non-recording spans, so callers never branch on whether
// tracing is on:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "rules.evaluate")
//	report := engine.Evaluate(answers)
//	tracing.SetReportAttributes(span, report)
//	span.End()
//
// Spans are exported over OTLP/gRPC in batches. Incoming trace context is
// read from W3C traceparent and baggage headers with Extract.
package tracing
