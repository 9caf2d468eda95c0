package leitner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/revisia/revisia-backend/internal/eventlog"
)

// SQLStore keeps box assignments relational (one row per student/question
// pair, upserted atomically) and sessions as JSON documents, matching the
// shape the service mutates.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetLevels(ctx context.Context, classroomID, studentID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, level FROM box_assignments
		 WHERE classroom_id=$1 AND student_id=$2`, classroomID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var level int
		if err := rows.Scan(&id, &level); err != nil {
			return nil, err
		}
		out[id] = level
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertAssignment(ctx context.Context, a BoxAssignment) error {
	if a.Level < MinLevel || a.Level > MaxLevel {
		return ErrInvalidLevel
	}
	_, err := s.db.ExecContext(ctx, upsertAssignmentSQL,
		a.ClassroomID, a.StudentID, a.QuestionID, a.Level, time.Now().Unix())
	return err
}

const upsertAssignmentSQL = `INSERT INTO box_assignments (classroom_id, student_id, question_id, level, updated_at)
 VALUES ($1,$2,$3,$4,$5)
 ON CONFLICT (classroom_id, student_id, question_id)
 DO UPDATE SET level=EXCLUDED.level, updated_at=EXCLUDED.updated_at`

func (s *SQLStore) CreateSession(ctx context.Context, sess ReviewSession) error {
	if sess.Answers == nil {
		sess.Answers = map[string]AnswerRecord{}
	}
	qj, err := json.Marshal(sess.Questions)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO review_sessions (id, classroom_id, student_id, status, questions_json, answers_json, started_at, last_answer_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,0)`,
		sess.ID, sess.ClassroomID, sess.StudentID, sess.Status, string(qj), string(aj), sess.StartedAt)
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (ReviewSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, classroom_id, student_id, status, questions_json, answers_json, transitions_json, started_at, COALESCE(finished_at, 0)
		 FROM review_sessions WHERE id=$1`, id)
	var sess ReviewSession
	var qj, aj, tj string
	err := row.Scan(&sess.ID, &sess.ClassroomID, &sess.StudentID, &sess.Status, &qj, &aj, &tj, &sess.StartedAt, &sess.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewSession{}, ErrSessionNotFound
		}
		return ReviewSession{}, err
	}
	if err := json.Unmarshal([]byte(qj), &sess.Questions); err != nil {
		return ReviewSession{}, err
	}
	if err := json.Unmarshal([]byte(aj), &sess.Answers); err != nil {
		return ReviewSession{}, err
	}
	if err := json.Unmarshal([]byte(tj), &sess.Transitions); err != nil {
		return ReviewSession{}, err
	}
	if sess.Answers == nil {
		sess.Answers = map[string]AnswerRecord{}
	}
	return sess, nil
}

func (s *SQLStore) SaveAnswer(ctx context.Context, sessionID, questionID string, rec AnswerRecord) error {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != StatusActive {
		return ErrSessionClosed
	}
	sess.Answers[questionID] = rec
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE review_sessions SET answers_json=$1, last_answer_at=$2 WHERE id=$3`,
		string(aj), rec.SubmittedAt, sessionID)
	return err
}

// FinishSession runs the state flip, every assignment upsert and the event
// log append in one transaction: either the whole session finish lands or
// none of it does.
func (s *SQLStore) FinishSession(ctx context.Context, sess ReviewSession, assignments []BoxAssignment) error {
	for _, a := range assignments {
		if a.Level < MinLevel || a.Level > MaxLevel {
			return ErrInvalidLevel
		}
	}
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	if sess.Transitions == nil {
		sess.Transitions = map[string]BoxTransition{}
	}
	tj, err := json.Marshal(sess.Transitions)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE review_sessions SET status=$1, answers_json=$2, transitions_json=$3, finished_at=$4 WHERE id=$5 AND status=$6`,
		StatusFinished, string(aj), string(tj), sess.FinishedAt, sess.ID, StatusActive)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// vanished or already finished under a concurrent writer
		if _, gerr := s.GetSession(ctx, sess.ID); gerr != nil {
			return gerr
		}
		return ErrSessionClosed
	}

	now := time.Now().Unix()
	for _, a := range assignments {
		if _, err := tx.ExecContext(ctx, upsertAssignmentSQL,
			a.ClassroomID, a.StudentID, a.QuestionID, a.Level, now); err != nil {
			return err
		}
	}

	data, err := json.Marshal(map[string]any{
		"session_id":   sess.ID,
		"classroom_id": sess.ClassroomID,
		"student_id":   sess.StudentID,
		"questions":    len(sess.Questions),
	})
	if err != nil {
		return err
	}
	if err := eventlog.Append(ctx, tx, eventlog.Event{
		Type:     eventlog.TypeSessionFinished,
		Key:      sess.ID,
		DataJSON: string(data),
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) LastAnswerAt(ctx context.Context, classroomID, studentID string) (int64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(last_answer_at), 0) FROM review_sessions
		 WHERE classroom_id=$1 AND student_id=$2 AND status=$3`,
		classroomID, studentID, StatusFinished)
	var last int64
	if err := row.Scan(&last); err != nil {
		return 0, err
	}
	return last, nil
}
