package leitner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/revisia/revisia-backend/internal/grading"
	"github.com/revisia/revisia-backend/internal/questionbank"
)

// QuestionSource is the authoritative question collaborator. Satisfied by
// questionbank.Bank.
type QuestionSource interface {
	GetClassroom(ctx context.Context, id string) (questionbank.Classroom, error)
	ListQuestions(ctx context.Context, classroomID string) ([]questionbank.Question, error)
	GetQuestion(ctx context.Context, id string) (questionbank.Question, error)
}

// Service runs the Leitner review flow: weighted selection, one active
// session per call sequence, grading on submit, box transitions on finish.
type Service struct {
	store     Store
	questions QuestionSource
	grader    grading.Grader
	weights   Weights

	rngMu sync.Mutex
	rng   *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

type ServiceOption func(*Service)

// WithWeights overrides the selection bias curve.
func WithWeights(w Weights) ServiceOption {
	return func(s *Service) { s.weights = w }
}

// WithRand injects the sampling source, for deterministic tests.
func WithRand(r *rand.Rand) ServiceOption {
	return func(s *Service) { s.rng = r }
}

func NewService(store Store, questions QuestionSource, grader grading.Grader, opts ...ServiceOption) *Service {
	s := &Service{
		store:     store,
		questions: questions,
		grader:    grader,
		weights:   DefaultWeights(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		locks:     map[string]*sync.Mutex{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// sessionLock serializes SubmitAnswer/Finish per session id. Sessions of
// different students never share a lock.
func (s *Service) sessionLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	return mu
}

func (s *Service) dropLock(id string) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, id)
}

func upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}

// Start selects count questions for the student and opens an ACTIVE session.
func (s *Service) Start(ctx context.Context, classroomID, studentID string, count int) (StartResponse, error) {
	if !validCount(count) {
		return StartResponse{}, ErrInvalidCount
	}
	if _, err := s.questions.GetClassroom(ctx, classroomID); err != nil {
		if errors.Is(err, questionbank.ErrClassroomNotFound) {
			return StartResponse{}, err
		}
		return StartResponse{}, upstream(err)
	}
	all, err := s.questions.ListQuestions(ctx, classroomID)
	if err != nil {
		return StartResponse{}, upstream(err)
	}
	levels, err := s.store.GetLevels(ctx, classroomID, studentID)
	if err != nil {
		return StartResponse{}, err
	}

	s.rngMu.Lock()
	selected, dist, err := selectQuestions(all, levels, count, s.weights, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return StartResponse{}, err
	}

	sess := ReviewSession{
		ID:          uuid.NewString(),
		ClassroomID: classroomID,
		StudentID:   studentID,
		Status:      StatusActive,
		Questions:   selected,
		Answers:     map[string]AnswerRecord{},
		StartedAt:   time.Now().Unix(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return StartResponse{}, err
	}

	byID := make(map[string]questionbank.Question, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}
	out := make([]SessionQuestion, 0, len(selected))
	for _, sq := range selected {
		s.rngMu.Lock()
		sanitized := sanitize(byID[sq.QuestionID], sq.Level, s.rng)
		s.rngMu.Unlock()
		out = append(out, sanitized)
	}
	return StartResponse{
		SessionID:             sess.ID,
		ClassroomID:           classroomID,
		Questions:             out,
		SelectionDistribution: dist,
	}, nil
}

// SubmitAnswer grades one answer and records it on the session. Resubmitting
// the same question overwrites the earlier record; boxes move only at finish.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, studentID string, ans grading.Answer) (AnswerResult, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if sess.StudentID != studentID {
		return AnswerResult{}, ErrSessionNotFound
	}
	if sess.Status != StatusActive {
		return AnswerResult{}, ErrSessionClosed
	}
	if !sess.contains(ans.QuestionID) {
		return AnswerResult{}, ErrUnknownQuestion
	}

	q, err := s.questions.GetQuestion(ctx, ans.QuestionID)
	if err != nil {
		if errors.Is(err, questionbank.ErrQuestionNotFound) {
			return AnswerResult{}, ErrUnknownQuestion
		}
		return AnswerResult{}, upstream(err)
	}
	res, err := s.grader.Grade(q, ans)
	if err != nil {
		return AnswerResult{}, err
	}
	rec := AnswerRecord{Payload: ans, Correct: res.Correct, SubmittedAt: time.Now().Unix()}
	if err := s.store.SaveAnswer(ctx, sessionID, ans.QuestionID, rec); err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{QuestionID: ans.QuestionID, IsCorrect: res.Correct, Message: res.Message}, nil
}

// Finish closes the session, applies one box transition per question
// (unanswered counts as incorrect) and reports the aggregate outcome. All
// transitions persist atomically or not at all.
func (s *Service) Finish(ctx context.Context, sessionID, studentID string) (SessionResult, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionResult{}, err
	}
	if sess.StudentID != studentID {
		return SessionResult{}, ErrSessionNotFound
	}
	if sess.Status != StatusActive {
		return SessionResult{}, ErrSessionClosed
	}

	// Fetch everything needed for the report up front so nothing can fail
	// after the transitions have been committed.
	all, err := s.questions.ListQuestions(ctx, sess.ClassroomID)
	if err != nil {
		return SessionResult{}, upstream(err)
	}
	levels, err := s.store.GetLevels(ctx, sess.ClassroomID, sess.StudentID)
	if err != nil {
		return SessionResult{}, err
	}

	correct := 0
	var movements BoxMovements
	assignments := make([]BoxAssignment, 0, len(sess.Questions))
	newLevels := make(map[string]int, len(levels))
	for k, v := range levels {
		newLevels[k] = v
	}
	sess.Transitions = make(map[string]BoxTransition, len(sess.Questions))
	for _, sq := range sess.Questions {
		rec, answered := sess.Answers[sq.QuestionID]
		ok := answered && rec.Correct
		if ok {
			correct++
		}
		cur := levelOf(levels, sq.QuestionID)
		next := nextLevel(cur, ok)
		switch {
		case next > cur:
			movements.Promoted++
		case next < cur:
			movements.Demoted++
		}
		assignments = append(assignments, BoxAssignment{
			ClassroomID: sess.ClassroomID,
			StudentID:   sess.StudentID,
			QuestionID:  sq.QuestionID,
			Level:       next,
		})
		sess.Transitions[sq.QuestionID] = BoxTransition{From: cur, To: next}
		newLevels[sq.QuestionID] = next
	}

	sess.Status = StatusFinished
	sess.FinishedAt = time.Now().Unix()
	if err := s.store.FinishSession(ctx, sess, assignments); err != nil {
		return SessionResult{}, err
	}
	s.dropLock(sessionID)

	total := len(sess.Questions)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	ids := make([]string, 0, len(all))
	for _, q := range all {
		ids = append(ids, q.ID)
	}
	return SessionResult{
		SessionID:          sess.ID,
		ClassroomID:        sess.ClassroomID,
		TotalQuestions:     total,
		CorrectAnswers:     correct,
		WrongAnswers:       total - correct,
		AccuracyRate:       accuracy,
		BoxMovements:       movements,
		NewBoxDistribution: boxCounts(ids, newLevels),
	}, nil
}

// Status is the read-through reporting projection over the box model.
func (s *Service) Status(ctx context.Context, classroomID, studentID string) (BoxesStatus, error) {
	classroom, err := s.questions.GetClassroom(ctx, classroomID)
	if err != nil {
		if errors.Is(err, questionbank.ErrClassroomNotFound) {
			return BoxesStatus{}, err
		}
		return BoxesStatus{}, upstream(err)
	}
	all, err := s.questions.ListQuestions(ctx, classroomID)
	if err != nil {
		return BoxesStatus{}, upstream(err)
	}
	levels, err := s.store.GetLevels(ctx, classroomID, studentID)
	if err != nil {
		return BoxesStatus{}, err
	}
	ids := make([]string, 0, len(all))
	for _, q := range all {
		ids = append(ids, q.ID)
	}
	status := BoxesStatus{
		ClassroomID:    classroomID,
		ClassroomName:  classroom.Name,
		TotalQuestions: len(ids),
		Boxes:          distribution(ids, levels, s.weights),
	}
	last, err := s.store.LastAnswerAt(ctx, classroomID, studentID)
	if err != nil {
		return BoxesStatus{}, err
	}
	if last > 0 {
		t := time.Unix(last, 0).UTC()
		status.LastReviewedAt = &t
	}
	return status, nil
}

// Review returns the detailed correction of a finished session, with the
// authoritative answers the student could not see while answering.
func (s *Service) Review(ctx context.Context, sessionID, studentID string) (SessionReview, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionReview{}, err
	}
	if sess.StudentID != studentID {
		return SessionReview{}, ErrSessionNotFound
	}
	if sess.Status != StatusFinished {
		return SessionReview{}, ErrSessionNotFinished
	}

	correct := 0
	answers := make([]AnswerDetail, 0, len(sess.Questions))
	for _, sq := range sess.Questions {
		var q questionbank.Question
		fetched, err := s.questions.GetQuestion(ctx, sq.QuestionID)
		if err == nil {
			q = fetched
		} else if !errors.Is(err, questionbank.ErrQuestionNotFound) {
			return SessionReview{}, upstream(err)
		}
		rec, answered := sess.Answers[sq.QuestionID]
		ok := answered && rec.Correct
		if ok {
			correct++
		}
		// The movement finish actually applied. The selection-time level is
		// only a fallback for sessions persisted without transitions.
		tr, recorded := sess.Transitions[sq.QuestionID]
		if !recorded {
			tr = BoxTransition{From: sq.Level, To: nextLevel(sq.Level, ok)}
		}
		answers = append(answers, AnswerDetail{
			QuestionID:    sq.QuestionID,
			QuestionText:  q.ContentText,
			IsCorrect:     ok,
			Answered:      answered,
			PreviousBox:   tr.From,
			NewBox:        tr.To,
			CorrectAnswer: q.CorrectAnswerText(),
			Explanation:   q.Explanation,
		})
	}
	total := len(sess.Questions)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	return SessionReview{
		SessionID:   sess.ID,
		ClassroomID: sess.ClassroomID,
		Answers:     answers,
		Summary: SessionSummary{
			TotalQuestions: total,
			CorrectAnswers: correct,
			AccuracyRate:   accuracy,
		},
	}, nil
}

// sanitize strips all correct-answer data from a question before it is
// served to a student. Matching right-hand items are shuffled so their order
// does not reveal the pairing.
func sanitize(q questionbank.Question, currentBox int, rng *rand.Rand) SessionQuestion {
	out := SessionQuestion{
		ID:          q.ID,
		Type:        q.Type,
		ContentText: q.ContentText,
		CurrentBox:  currentBox,
	}
	if q.MediaKey != "" {
		out.MediaURL = "/assets/" + q.MediaKey
	}
	switch q.Type {
	case questionbank.TypeQCM, questionbank.TypeTrueFalse:
		opts := make([]questionbank.Option, len(q.Options))
		copy(opts, q.Options)
		sort.Slice(opts, func(i, j int) bool { return opts[i].DisplayOrder < opts[j].DisplayOrder })
		for _, o := range opts {
			out.Options = append(out.Options, SessionOption{ID: o.ID, TextChoice: o.TextChoice})
		}
	case questionbank.TypeMatching:
		for _, p := range q.Pairs {
			out.LeftItems = append(out.LeftItems, SessionOption{ID: p.LeftID, TextChoice: p.ItemLeft})
			out.RightItems = append(out.RightItems, SessionOption{ID: p.RightID, TextChoice: p.ItemRight})
		}
		rng.Shuffle(len(out.RightItems), func(i, j int) {
			out.RightItems[i], out.RightItems[j] = out.RightItems[j], out.RightItems[i]
		})
	}
	return out
}
