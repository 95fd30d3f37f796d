package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bcsb-lending/conditions-matrix/pkg/questionnaire"
)

// Error codes written in the "error" field.
const (
	codeBadRequest       = "bad_request"
	codeInvalidAnswer    = "invalid_answer"
	codeNotFound         = "not_found"
	codeSessionNotFound  = "session_not_found"
	codeUnknownQuestion  = "unknown_question"
	codeSessionLimit     = "session_limit"
	codeBodyTooLarge     = "request_too_large"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	if status >= http.StatusInternalServerError {
		description = ""
	}
	writeJSON(w, status, errorResponse{Error: code, Description: description})
}

// writeDomainError maps questionnaire errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var answerErr *questionnaire.AnswerError
	switch {
	case errors.As(err, &answerErr):
		writeError(w, http.StatusBadRequest, codeInvalidAnswer, answerErr.Error())
	case errors.Is(err, questionnaire.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, codeSessionNotFound, err.Error())
	case errors.Is(err, questionnaire.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, codeUnknownQuestion, err.Error())
	case errors.Is(err, questionnaire.ErrSessionLimit):
		writeError(w, http.StatusServiceUnavailable, codeSessionLimit, err.Error())
	case errors.Is(err, questionnaire.ErrInvalidAnswer):
		writeError(w, http.StatusBadRequest, codeInvalidAnswer, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}

// decodeBody decodes a JSON request body into dst, writing a 400 or 413
// response and returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "request body exceeds limit")
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
