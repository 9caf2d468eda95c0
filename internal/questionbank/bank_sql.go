package questionbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLBank stores classrooms relationally and each question's polymorphic
// payload as JSON, keeping the schema identical across sqlite and postgres.
type SQLBank struct {
	db *sql.DB
}

func NewSQLBank(db *sql.DB) *SQLBank { return &SQLBank{db: db} }

func (s *SQLBank) PutClassroom(ctx context.Context, c Classroom) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classrooms (id, name, teacher_id, created_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, teacher_id=EXCLUDED.teacher_id`,
		c.ID, c.Name, c.TeacherID, time.Now().Unix())
	return err
}

func (s *SQLBank) GetClassroom(ctx context.Context, id string) (Classroom, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, teacher_id, created_at FROM classrooms WHERE id=$1`, id)
	var c Classroom
	if err := row.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Classroom{}, ErrClassroomNotFound
		}
		return Classroom{}, err
	}
	return c, nil
}

func (s *SQLBank) PutQuestion(ctx context.Context, q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if _, err := s.GetClassroom(ctx, q.ClassroomID); err != nil {
		return err
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (id, classroom_id, type, payload_json, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET type=EXCLUDED.type, payload_json=EXCLUDED.payload_json`,
		q.ID, q.ClassroomID, string(q.Type), string(payload), time.Now().Unix())
	return err
}

func (s *SQLBank) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM questions WHERE id=$1`, id)
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrQuestionNotFound
		}
		return Question{}, err
	}
	var q Question
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLBank) ListQuestions(ctx context.Context, classroomID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload_json FROM questions WHERE classroom_id=$1 ORDER BY id`, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var q Question
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLBank) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
