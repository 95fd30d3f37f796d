package questionnaire

import (
	"log/slog"
	"sync"
	"time"
)

// Observer receives session lifecycle events, typically to record metrics.
type Observer interface {
	SessionCreated()
	SessionCompleted()
	SessionsExpired(n int)
}

type nopObserver struct{}

func (nopObserver) SessionCreated()     {}
func (nopObserver) SessionCompleted()   {}
func (nopObserver) SessionsExpired(int) {}

// Store keeps sessions in memory. It is safe for concurrent use.
type Store struct {
	questions []Question
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewStore creates a store whose sessions walk questions. A nil logger
// selects slog.Default and a nil observer discards events.
func NewStore(questions []Question, logger *slog.Logger, observer Observer) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Store{
		questions: questions,
		logger:    logger.With("component", "questionnaire.store"),
		observer:  observer,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Questions returns the question set used for new sessions.
func (st *Store) Questions() []Question {
	return st.questions
}

// SetLimit caps the number of stored sessions. Zero means unlimited.
func (st *Store) SetLimit(n int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.limit = n
}

// Create starts and stores a new session. It fails with ErrSessionLimit
// when the store is full.
func (st *Store) Create() (*Session, error) {
	s := newSession(st.questions, st.now)

	st.mu.Lock()
	if st.limit > 0 && len(st.sessions) >= st.limit {
		st.mu.Unlock()
		return nil, ErrSessionLimit
	}
	st.sessions[s.ID()] = s
	st.mu.Unlock()

	st.observer.SessionCreated()
	st.logger.Debug("session created", "session_id", s.ID())
	return s, nil
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Touch records activity on a session so it is not expired.
func (st *Store) Touch(id string) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	s.Touch()
	return nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	st.logger.Debug("session deleted", "session_id", id)
	return nil
}

// Advance calls Next on a session and reports completion to the observer.
func (st *Store) Advance(id string) (*Session, bool, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, false, err
	}
	wasComplete := s.Complete()
	completed, err := s.Next()
	if err != nil {
		return s, false, err
	}
	if completed && !wasComplete {
		st.observer.SessionCompleted()
		st.logger.Info("assessment completed", "session_id", id)
	}
	return s, completed, nil
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// ExpireIdle removes sessions whose last activity is more than timeout
// before now and returns how many were removed.
func (st *Store) ExpireIdle(now time.Time, timeout time.Duration) int {
	cutoff := now.Add(-timeout)

	st.mu.Lock()
	expired := 0
	for id, s := range st.sessions {
		if s.LastActivity().Before(cutoff) {
			delete(st.sessions, id)
			expired++
		}
	}
	st.mu.Unlock()

	if expired > 0 {
		st.observer.SessionsExpired(expired)
	}
	return expired
}
