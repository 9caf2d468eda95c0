package leitner

import (
	"context"
	"sync"
	"time"
)

// Store persists box assignments and review sessions. Assignment upserts are
// atomic per (student, question) row; FinishSession applies the session's
// transitions all-or-nothing.
type Store interface {
	// GetLevels returns questionID -> level for every assignment the
	// student has in the classroom. Unattempted questions are absent.
	GetLevels(ctx context.Context, classroomID, studentID string) (map[string]int, error)
	UpsertAssignment(ctx context.Context, a BoxAssignment) error

	CreateSession(ctx context.Context, s ReviewSession) error
	GetSession(ctx context.Context, id string) (ReviewSession, error)
	// SaveAnswer records (or overwrites) the answer for one question of an
	// active session.
	SaveAnswer(ctx context.Context, sessionID, questionID string, rec AnswerRecord) error
	// FinishSession marks the session finished and upserts all transitions
	// atomically; on error nothing is persisted.
	FinishSession(ctx context.Context, s ReviewSession, assignments []BoxAssignment) error

	// LastAnswerAt returns the newest answer timestamp across the student's
	// finished sessions in the classroom, 0 when there is none.
	LastAnswerAt(ctx context.Context, classroomID, studentID string) (int64, error)
}

type memoryStore struct {
	mu          sync.RWMutex
	assignments map[string]BoxAssignment // key: classroom|student|question
	sessions    map[string]ReviewSession
}

// NewInMemoryStore returns a Store backed by process memory, for tests and
// offline single-node runs.
func NewInMemoryStore() Store {
	return &memoryStore{
		assignments: map[string]BoxAssignment{},
		sessions:    map[string]ReviewSession{},
	}
}

func assignmentKey(classroomID, studentID, questionID string) string {
	return classroomID + "|" + studentID + "|" + questionID
}

func (m *memoryStore) GetLevels(_ context.Context, classroomID, studentID string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{}
	for _, a := range m.assignments {
		if a.ClassroomID == classroomID && a.StudentID == studentID {
			out[a.QuestionID] = a.Level
		}
	}
	return out, nil
}

func (m *memoryStore) UpsertAssignment(_ context.Context, a BoxAssignment) error {
	if a.Level < MinLevel || a.Level > MaxLevel {
		return ErrInvalidLevel
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.UpdatedAt = time.Now().Unix()
	m.assignments[assignmentKey(a.ClassroomID, a.StudentID, a.QuestionID)] = a
	return nil
}

func (m *memoryStore) CreateSession(_ context.Context, s ReviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Answers == nil {
		s.Answers = map[string]AnswerRecord{}
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) GetSession(_ context.Context, id string) (ReviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return ReviewSession{}, ErrSessionNotFound
	}
	// copy the answer map so callers cannot mutate stored state
	answers := make(map[string]AnswerRecord, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	s.Answers = answers
	return s, nil
}

func (m *memoryStore) SaveAnswer(_ context.Context, sessionID, questionID string, rec AnswerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Status != StatusActive {
		return ErrSessionClosed
	}
	s.Answers[questionID] = rec
	m.sessions[sessionID] = s
	return nil
}

func (m *memoryStore) FinishSession(_ context.Context, s ReviewSession, assignments []BoxAssignment) error {
	for _, a := range assignments {
		if a.Level < MinLevel || a.Level > MaxLevel {
			return ErrInvalidLevel
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	now := time.Now().Unix()
	for _, a := range assignments {
		a.UpdatedAt = now
		m.assignments[assignmentKey(a.ClassroomID, a.StudentID, a.QuestionID)] = a
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) LastAnswerAt(_ context.Context, classroomID, studentID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last int64
	for _, s := range m.sessions {
		if s.ClassroomID != classroomID || s.StudentID != studentID || s.Status != StatusFinished {
			continue
		}
		for _, rec := range s.Answers {
			if rec.SubmittedAt > last {
				last = rec.SubmittedAt
			}
		}
	}
	return last, nil
}
