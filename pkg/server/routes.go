package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bcsb-lending/conditions-matrix/pkg/telemetry/health"
)

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(tracingMiddleware(s.deps.Tracer))
	r.Use(loggingMiddleware(s.logger))
	r.Use(recoveryMiddleware(s.logger))
	if s.deps.Metrics != nil {
		r.Use(metricsMiddleware(s.deps.Metrics))
	}
	r.Use(maxBytesMiddleware(s.config.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/health", s.deps.Health.LivenessHandler())
	r.Head("/health", s.deps.Health.LivenessHandler())
	r.Get("/ready", s.deps.Health.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.deps.Build.Version, s.deps.Build.Commit, s.deps.Build.BuildTime))
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		newAPIHandler(s.deps.Engine, s.deps.Tracer, s.logger).Register(r)
		newSessionHandler(s.deps.Engine, s.deps.Store, s.deps.Tracer, s.logger).Register(r)
	})

	return r
}
