// Package logging builds the service's structured loggers.
//
// Loggers are plain *slog.Logger values. New selects the level and the
// output format, and wraps the handler so that request and session IDs
// stored in a context are added to every record logged with that context:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "evaluated answers", "risk_level", "High")
package logging
