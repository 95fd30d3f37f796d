// Package health provides liveness, readiness and version endpoints.
//
// Liveness only reports that the process is up. Readiness runs every
// registered check concurrently, each under its own timeout, and answers
// 503 when any check fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("catalog", health.CatalogCheck(cat))
//	checker.RegisterCheck("sessions", health.SessionCapacityCheck(store.Len, 1000))
//
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
package health
