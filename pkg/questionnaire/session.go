package questionnaire

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"bcsb-lending/conditions-matrix/pkg/rules"
)

// Session is one officer's walk through the questionnaire. All methods are
// safe for concurrent use.
type Session struct {
	id        string
	questions []Question
	createdAt time.Time
	now       func() time.Time

	mu           sync.Mutex
	answers      map[string]Value
	index        int
	completed    bool
	lastActivity time.Time
}

// NewSession starts a session over questions with a random ID.
func NewSession(questions []Question) *Session {
	return newSession(questions, time.Now)
}

func newSession(questions []Question, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:           uuid.NewString(),
		questions:    questions,
		createdAt:    t,
		now:          now,
		answers:      make(map[string]Value),
		lastActivity: t,
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Questions returns the questions of the session.
func (s *Session) Questions() []Question {
	return s.questions
}

// CreatedAt returns when the session started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActivity returns when the session was last used.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Touch records activity without changing state.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = s.now()
}

// Index returns the zero-based position of the current question.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the current question. A session without questions
// returns the zero Question.
func (s *Session) Current() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() Question {
	if len(s.questions) == 0 {
		return Question{}
	}
	return s.questions[s.index]
}

// Answer validates and records the answer to questionID. Any question may
// be answered regardless of the current position. An empty answer to an
// optional question clears it.
func (s *Session) Answer(questionID string, v Value) error {
	q, _, ok := Find(s.questions, questionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	normalized, err := q.Normalize(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if normalized == nil {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = normalized
	}
	s.lastActivity = s.now()
	return nil
}

// Next validates the answer to the current question and advances. On the
// last question it marks the session complete and returns true. The
// position is unchanged when validation fails.
func (s *Session) Next() (completed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = s.now()
	if len(s.questions) == 0 {
		s.completed = true
		return true, nil
	}

	q := s.current()
	if _, err := q.Normalize(s.answers[q.ID]); err != nil {
		return false, err
	}

	if s.index < len(s.questions)-1 {
		s.index++
		return false, nil
	}
	s.completed = true
	return true, nil
}

// Previous moves back one question. It reports false at the first question.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = s.now()
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Progress returns the percentage of the questionnaire reached, counting
// the current question as reached.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress()
}

func (s *Session) progress() float64 {
	if len(s.questions) == 0 {
		return 100
	}
	return float64(s.index+1) / float64(len(s.questions)) * 100
}

// Complete reports whether Next has been called on the last question.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Reset clears all answers and returns to the first question.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = make(map[string]Value)
	s.index = 0
	s.completed = false
	s.lastActivity = s.now()
}

// Answers returns a copy of the recorded answers keyed by question ID.
func (s *Session) Answers() map[string]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.answers)
}

// AnswerSet converts the recorded answers for evaluation.
func (s *Session) AnswerSet() rules.AnswerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return answerSet(s.answers)
}

func answerSet(answers map[string]Value) rules.AnswerSet {
	var collateral rules.CodeSet
	if v := answers[QuestionCollateralType]; len(v) > 0 {
		collateral = append(rules.CodeSet(nil), v...)
	}
	return rules.AnswerSet{
		LoanType:       answers[QuestionLoanType].String(),
		LoanAmount:     rules.ParseAmount(answers[QuestionLoanAmount].String()),
		BorrowerType:   answers[QuestionBorrowerType].String(),
		IndustryType:   answers[QuestionIndustryType].String(),
		CollateralType: collateral,
	}
}

// View is a point-in-time snapshot of a session.
type View struct {
	ID           string           `json:"id"`
	Index        int              `json:"index"`
	Total        int              `json:"total"`
	Progress     float64          `json:"progress"`
	Current      Question         `json:"current"`
	Answers      map[string]Value `json:"answers"`
	Completed    bool             `json:"completed"`
	CreatedAt    time.Time        `json:"created_at"`
	LastActivity time.Time        `json:"last_activity"`
}

// View returns a consistent snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:           s.id,
		Index:        s.index,
		Total:        len(s.questions),
		Progress:     s.progress(),
		Current:      s.current(),
		Answers:      maps.Clone(s.answers),
		Completed:    s.completed,
		CreatedAt:    s.createdAt,
		LastActivity: s.lastActivity,
	}
}
