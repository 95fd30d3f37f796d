package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/telemetry/logging"
	"bcsb-lending/conditions-matrix/pkg/telemetry/tracing"
)

// sessionHandler serves the questionnaire session endpoints.
type sessionHandler struct {
	engine *rules.Engine
	store  *questionnaire.Store
	tracer *tracing.Tracer
	logger *slog.Logger
}

func newSessionHandler(engine *rules.Engine, store *questionnaire.Store, tracer *tracing.Tracer, logger *slog.Logger) *sessionHandler {
	return &sessionHandler{engine: engine, store: store, tracer: tracer, logger: logger}
}

// Register mounts the session endpoints on the router.
func (h *sessionHandler) Register(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Delete("/", h.handleDelete)
		r.Put("/answers/{questionID}", h.handleAnswer)
		r.Post("/next", h.handleNext)
		r.Post("/previous", h.handlePrevious)
		r.Post("/reset", h.handleReset)
		r.Get("/report", h.handleReport)
	})
}

// session resolves the {id} parameter, tags the request context with it and
// writes a 404 when it is unknown.
func (h *sessionHandler) session(w http.ResponseWriter, r *http.Request) (*questionnaire.Session, *http.Request, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.store.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return nil, r, false
	}
	tracing.SetSession(trace.SpanFromContext(r.Context()), id)
	return s, r.WithContext(logging.WithSession(r.Context(), id)), true
}

func (h *sessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Create()
	if err != nil {
		h.logger.WarnContext(r.Context(), "session not created", "error", err)
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+s.ID())
	writeJSON(w, http.StatusCreated, s.View())
}

func (h *sessionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	s, _, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Touch()
	writeJSON(w, http.StatusOK, s.View())
}

func (h *sessionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	Value questionnaire.Value `json:"value"`
}

func (h *sessionHandler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.session(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	questionID := chi.URLParam(r, "questionID")
	if err := s.Answer(questionID, req.Value); err != nil {
		h.logger.DebugContext(r.Context(), "answer rejected", "question_id", questionID, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

type nextResponse struct {
	Completed bool               `json:"completed"`
	Session   questionnaire.View `json:"session"`
}

func (h *sessionHandler) handleNext(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, completed, err := h.store.Advance(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nextResponse{Completed: completed, Session: s.View()})
}

func (h *sessionHandler) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s, _, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Previous()
	writeJSON(w, http.StatusOK, s.View())
}

func (h *sessionHandler) handleReset(w http.ResponseWriter, r *http.Request) {
	s, _, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Reset()
	writeJSON(w, http.StatusOK, s.View())
}

func (h *sessionHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Touch()

	report := evaluate(r.Context(), h.tracer, h.engine, s.AnswerSet())
	h.logger.InfoContext(r.Context(), "report generated",
		"complete", s.Complete(),
		"requirements", len(report.Requirements),
		"risk_level", report.RiskLevel,
	)
	writeJSON(w, http.StatusOK, report)
}
