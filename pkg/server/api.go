package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bcsb-lending/conditions-matrix/pkg/catalog"
	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/telemetry/tracing"
)

// apiHandler serves the stateless endpoints.
type apiHandler struct {
	engine *rules.Engine
	tracer *tracing.Tracer
	logger *slog.Logger
}

func newAPIHandler(engine *rules.Engine, tracer *tracing.Tracer, logger *slog.Logger) *apiHandler {
	return &apiHandler{engine: engine, tracer: tracer, logger: logger}
}

// evaluate runs the engine inside a rules.evaluate span.
func evaluate(ctx context.Context, tracer *tracing.Tracer, engine *rules.Engine, answers rules.AnswerSet) rules.Report {
	_, span := tracer.Start(ctx, "rules.evaluate")
	defer span.End()

	tracing.SetAnswerAttributes(span, answers)
	report := engine.Evaluate(answers)
	tracing.SetReportAttributes(span, report)
	return report
}

// Register mounts the stateless endpoints on the router.
func (h *apiHandler) Register(r chi.Router) {
	r.Get("/questions", h.handleQuestions)
	r.Get("/catalog", h.handleCatalog)
	r.Post("/evaluate", h.handleEvaluate)
}

type questionsResponse struct {
	Questions []questionnaire.Question `json:"questions"`
}

func (h *apiHandler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, questionsResponse{Questions: questionnaire.DefaultQuestions()})
}

type bucketResponse struct {
	Name       string   `json:"name"`
	LowerBound string   `json:"lower_bound"`
	Requires   []string `json:"requirements"`
}

type catalogResponse struct {
	Name         string              `json:"name"`
	Version      string              `json:"version,omitempty"`
	Tables       map[string][]string `json:"tables"`
	Buckets      []bucketResponse    `json:"amount_buckets"`
	Requirements map[string]string   `json:"requirements"`
}

func (h *apiHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := h.engine.Catalog()

	resp := catalogResponse{
		Name:         cat.Name(),
		Version:      cat.Version(),
		Tables:       make(map[string][]string, len(catalog.Tables)),
		Requirements: make(map[string]string),
	}
	for _, table := range catalog.Tables {
		resp.Tables[string(table)] = cat.Codes(table)
	}
	for _, b := range cat.Buckets() {
		resp.Buckets = append(resp.Buckets, bucketResponse{
			Name:       b.Name,
			LowerBound: b.LowerBound.String(),
			Requires:   b.Requirements,
		})
	}
	for _, code := range cat.RequirementCodes() {
		resp.Requirements[code] = cat.Describe(code)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var answers rules.AnswerSet
	if !decodeBody(w, r, &answers) {
		return
	}

	report := evaluate(r.Context(), h.tracer, h.engine, answers)
	h.logger.DebugContext(r.Context(), "answers evaluated",
		"loan_type", answers.LoanType,
		"amount_bucket", report.AmountBucket,
		"requirements", len(report.Requirements),
		"risk_level", report.RiskLevel,
	)
	writeJSON(w, http.StatusOK, report)
}
