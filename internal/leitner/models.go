package leitner

import (
	"time"

	"github.com/revisia/revisia-backend/internal/grading"
	"github.com/revisia/revisia-backend/internal/questionbank"
)

const (
	MinLevel  = 1
	MaxLevel  = 5
	NumLevels = 5
)

// Session sizes offered by the review UI.
var ValidCounts = []int{5, 10, 15, 20}

const (
	StatusActive   = "ACTIVE"
	StatusFinished = "FINISHED"
)

// BoxAssignment is the current box level of one question for one student.
// A question a student never attempted has no assignment and is treated as
// MinLevel wherever a level is needed.
type BoxAssignment struct {
	ClassroomID string `json:"classroom_id"`
	StudentID   string `json:"student_id"`
	QuestionID  string `json:"question_id"`
	Level       int    `json:"level"`
	UpdatedAt   int64  `json:"updated_at,omitempty"`
}

// Box is the per-level slice of a classroom distribution.
type Box struct {
	Level           int     `json:"level"`
	QuestionCount   int     `json:"question_count"`
	Percentage      float64 `json:"percentage"`
	SelectionWeight float64 `json:"selection_weight"`
}

// BoxesStatus is the reporting projection for one (classroom, student).
type BoxesStatus struct {
	ClassroomID    string     `json:"classroom_id"`
	ClassroomName  string     `json:"classroom_name"`
	TotalQuestions int        `json:"total_questions"`
	Boxes          []Box      `json:"boxes"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// SelectionDistribution reports how many questions of a selection (or of a
// classroom) sit in each box.
type SelectionDistribution struct {
	Box1 int `json:"box1"`
	Box2 int `json:"box2"`
	Box3 int `json:"box3"`
	Box4 int `json:"box4"`
	Box5 int `json:"box5"`
}

func (d *SelectionDistribution) add(level int) {
	switch level {
	case 1:
		d.Box1++
	case 2:
		d.Box2++
	case 3:
		d.Box3++
	case 4:
		d.Box4++
	case 5:
		d.Box5++
	}
}

// SelectedQuestion is one entry of a session's ordered question list, with
// the box level the question had when it was selected.
type SelectedQuestion struct {
	QuestionID string `json:"question_id"`
	Level      int    `json:"box_level"`
}

// BoxTransition is the box movement applied to one question when its
// session finished. Recorded at finish because the question's level may
// have moved since selection, e.g. through another overlapping session.
type BoxTransition struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// AnswerRecord is the latest submission for a question within a session.
type AnswerRecord struct {
	Payload     grading.Answer `json:"payload"`
	Correct     bool           `json:"is_correct"`
	SubmittedAt int64          `json:"submitted_at"`
}

// ReviewSession is one bounded review interaction. Box levels are only
// touched at finish, so an abandoned session leaves assignments intact.
type ReviewSession struct {
	ID          string                  `json:"id"`
	ClassroomID string                  `json:"classroom_id"`
	StudentID   string                  `json:"student_id"`
	Status      string                  `json:"status"`
	Questions   []SelectedQuestion      `json:"questions"`
	Answers     map[string]AnswerRecord `json:"answers"`
	// Transitions is filled at finish: questionID -> the movement applied.
	Transitions map[string]BoxTransition `json:"transitions,omitempty"`
	StartedAt   int64                    `json:"started_at"`
	FinishedAt  int64                    `json:"finished_at,omitempty"`
}

func (s ReviewSession) contains(questionID string) bool {
	for _, q := range s.Questions {
		if q.QuestionID == questionID {
			return true
		}
	}
	return false
}

// SessionOption is a student-safe answer choice: id and label only.
type SessionOption struct {
	ID         string `json:"id"`
	TextChoice string `json:"text_choice"`
}

// SessionQuestion is the sanitized question served to the student. No
// correct-answer data: options lose their flag, matching sides lose their
// pairing, image zones and accepted text are stripped entirely.
type SessionQuestion struct {
	ID          string            `json:"id"`
	Type        questionbank.Type `json:"type"`
	ContentText string            `json:"content_text"`
	MediaURL    string            `json:"media_url,omitempty"`
	CurrentBox  int               `json:"current_box"`
	Options     []SessionOption   `json:"options,omitempty"`
	LeftItems   []SessionOption   `json:"left_items,omitempty"`
	RightItems  []SessionOption   `json:"right_items,omitempty"`
}

// StartResponse is the payload returned when a session starts.
type StartResponse struct {
	SessionID             string                `json:"session_id"`
	ClassroomID           string                `json:"classroom_id"`
	Questions             []SessionQuestion     `json:"questions"`
	SelectionDistribution SelectionDistribution `json:"selection_distribution"`
}

// AnswerResult echoes the grading outcome of one submission.
type AnswerResult struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
	Message    string `json:"message"`
}

type BoxMovements struct {
	Promoted int `json:"promoted"`
	Demoted  int `json:"demoted"`
}

// SessionResult is the aggregate outcome of a finished session.
type SessionResult struct {
	SessionID          string                `json:"session_id"`
	ClassroomID        string                `json:"classroom_id"`
	TotalQuestions     int                   `json:"total_questions"`
	CorrectAnswers     int                   `json:"correct_answers"`
	WrongAnswers       int                   `json:"wrong_answers"`
	AccuracyRate       float64               `json:"accuracy_rate"`
	BoxMovements       BoxMovements          `json:"box_movements"`
	NewBoxDistribution SelectionDistribution `json:"new_box_distribution"`
}

// AnswerDetail is one corrected answer in a session review.
type AnswerDetail struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	IsCorrect     bool   `json:"is_correct"`
	Answered      bool   `json:"answered"`
	PreviousBox   int    `json:"previous_box"`
	NewBox        int    `json:"new_box"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type SessionSummary struct {
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	AccuracyRate   float64 `json:"accuracy_rate"`
}

// SessionReview is the detailed correction of a finished session.
type SessionReview struct {
	SessionID   string         `json:"session_id"`
	ClassroomID string         `json:"classroom_id"`
	Answers     []AnswerDetail `json:"answers"`
	Summary     SessionSummary `json:"summary"`
}
