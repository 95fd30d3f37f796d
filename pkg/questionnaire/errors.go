package questionnaire

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session ID is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnknownQuestion is returned when an answer names a question that is
	// not part of the session.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrSessionLimit is returned when the store already holds the maximum
	// number of sessions.
	ErrSessionLimit = errors.New("session limit reached")

	// ErrInvalidAnswer is the sentinel wrapped by every AnswerError.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// AnswerError describes why an answer was rejected.
type AnswerError struct {
	QuestionID string
	Message    string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %s: %s", e.QuestionID, e.Message)
}

// Unwrap allows errors.Is(err, ErrInvalidAnswer).
func (e *AnswerError) Unwrap() error {
	return ErrInvalidAnswer
}

func answerError(questionID, format string, args ...any) error {
	return &AnswerError{QuestionID: questionID, Message: fmt.Sprintf(format, args...)}
}
