// Package questionnaire implements the loan assessment questionnaire: the
// question set, per-question answer validation and navigable sessions that
// turn a sequence of answers into a rules.AnswerSet.
//
// # Questions
//
// DefaultQuestions returns the five standard questions in order: loan type,
// loan amount, borrower type, industry and collateral. Each question has a
// Type that decides how its answer is validated:
//
//   - select and radio answers must be exactly one of the options
//   - checkbox answers may hold several options
//   - currency answers must be a number, optionally within a Range
//   - text answers may be any non-empty string
//
// # Sessions
//
// A Session walks one officer through the questions:
//
//	s := questionnaire.NewSession(questionnaire.DefaultQuestions())
//	_ = s.Answer("loan_type", questionnaire.Single("term_loan"))
//	done, err := s.Next()
//
// Sessions are safe for concurrent use. A Store keeps sessions in memory and
// a Sweeper expires the ones that have been idle longer than a timeout.
// Nothing is persisted.
package questionnaire
