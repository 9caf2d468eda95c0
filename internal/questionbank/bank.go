package questionbank

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrQuestionNotFound  = errors.New("question not found")
)

// Bank is the authoritative question source for a classroom.
type Bank interface {
	PutClassroom(ctx context.Context, c Classroom) error
	GetClassroom(ctx context.Context, id string) (Classroom, error)
	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestions(ctx context.Context, classroomID string) ([]Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

type memoryBank struct {
	mu         sync.RWMutex
	classrooms map[string]Classroom
	questions  map[string]Question
}

// NewInMemoryBank returns a Bank backed by process memory, for tests and
// offline single-node runs.
func NewInMemoryBank() Bank {
	return &memoryBank{
		classrooms: map[string]Classroom{},
		questions:  map[string]Question{},
	}
}

func (m *memoryBank) PutClassroom(_ context.Context, c Classroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classrooms[c.ID] = c
	return nil
}

func (m *memoryBank) GetClassroom(_ context.Context, id string) (Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classrooms[id]
	if !ok {
		return Classroom{}, ErrClassroomNotFound
	}
	return c, nil
}

func (m *memoryBank) PutQuestion(_ context.Context, q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.classrooms[q.ClassroomID]; !ok {
		return ErrClassroomNotFound
	}
	m.questions[q.ID] = q
	return nil
}

func (m *memoryBank) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrQuestionNotFound
	}
	return q, nil
}

func (m *memoryBank) ListQuestions(_ context.Context, classroomID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Question{}
	for _, q := range m.questions {
		if q.ClassroomID == classroomID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryBank) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrQuestionNotFound
	}
	delete(m.questions, id)
	return nil
}
