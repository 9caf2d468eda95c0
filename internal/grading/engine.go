package grading

import (
	"errors"
	"math"
	"strings"

	"github.com/revisia/revisia-backend/internal/questionbank"
)

// ErrInvalidAnswerFormat reports a submitted payload that does not fit the
// question's type: mismatched discriminant, or the type's required field
// missing or malformed.
var ErrInvalidAnswerFormat = errors.New("invalid answer format")

// Point is a clicked coordinate on question media.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MatchedPair is one left/right association submitted by the student.
type MatchedPair struct {
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
}

// Answer is the polymorphic submission payload. Type selects which of the
// optional fields must be populated.
type Answer struct {
	QuestionID         string            `json:"question_id"`
	Type               questionbank.Type `json:"type"`
	SelectedOptionID   string            `json:"selected_option_id,omitempty"`
	ClickedCoordinates *Point            `json:"clicked_coordinates,omitempty"`
	TextResponse       string            `json:"text_response,omitempty"`
	MatchedPairs       []MatchedPair     `json:"matched_pairs,omitempty"`
}

// Result is the outcome of grading a single submission.
type Result struct {
	Correct bool   `json:"is_correct"`
	Message string `json:"message"`
}

// Strategy grades one question type.
type Strategy interface {
	Grade(q questionbank.Question, a Answer) (Result, error)
}

// Grader routes a submission to the Strategy for its question type.
type Grader interface {
	Grade(q questionbank.Question, a Answer) (Result, error)
}

type Option func(*config)

type config struct {
	ToleranceRatio float64
}

// DefaultToleranceRatio is the similarity threshold for spelling-tolerant
// TEXT grading: a submission counts as correct when its normalized
// Levenshtein similarity to the accepted answer is at least this value.
// 0.80 admits one edit on short answers ("Pariss" for "Paris") while still
// rejecting heavier rewrites.
const DefaultToleranceRatio = 0.80

// WithToleranceRatio overrides the TEXT fuzzy-match threshold.
// Values outside (0,1] are ignored.
func WithToleranceRatio(r float64) Option {
	return func(c *config) {
		if r > 0 && r <= 1 {
			c.ToleranceRatio = r
		}
	}
}

type defaultGrader struct {
	strategies map[questionbank.Type]Strategy
}

// NewDefaultGrader installs built-in strategies for the five question types.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{ToleranceRatio: DefaultToleranceRatio}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[questionbank.Type]Strategy{
			questionbank.TypeQCM:       optionStrategy{},
			questionbank.TypeTrueFalse: optionStrategy{},
			questionbank.TypeText:      textStrategy{tolerance: cfg.ToleranceRatio},
			questionbank.TypeImage:     imageStrategy{},
			questionbank.TypeMatching:  matchingStrategy{},
		},
	}
}

func (g *defaultGrader) Grade(q questionbank.Question, a Answer) (Result, error) {
	if a.Type != q.Type {
		return Result{}, ErrInvalidAnswerFormat
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{}, ErrInvalidAnswerFormat
	}
	return s.Grade(q, a)
}

// --- Strategies ---

type optionStrategy struct{}

func (optionStrategy) Grade(q questionbank.Question, a Answer) (Result, error) {
	if a.SelectedOptionID == "" {
		return Result{}, ErrInvalidAnswerFormat
	}
	known := false
	for _, o := range q.Options {
		if o.ID == a.SelectedOptionID {
			known = true
			break
		}
	}
	if !known {
		return Result{}, ErrInvalidAnswerFormat
	}
	if a.SelectedOptionID == q.CorrectOptionID() {
		return Result{Correct: true, Message: "Correct"}, nil
	}
	return Result{Message: "Incorrect"}, nil
}

type textStrategy struct {
	tolerance float64
}

func (s textStrategy) Grade(q questionbank.Question, a Answer) (Result, error) {
	if q.Text == nil || strings.TrimSpace(a.TextResponse) == "" {
		return Result{}, ErrInvalidAnswerFormat
	}
	got := normalize(a.TextResponse)
	want := normalize(q.Text.AcceptedAnswer)
	if !q.Text.IsCaseSensitive {
		got = strings.ToLower(got)
		want = strings.ToLower(want)
	}
	if got == want {
		return Result{Correct: true, Message: "Correct"}, nil
	}
	if q.Text.IgnoreSpellingErrors && similarity(got, want) >= s.tolerance {
		return Result{Correct: true, Message: "Correct (close spelling)"}, nil
	}
	return Result{Message: "Incorrect"}, nil
}

type imageStrategy struct{}

func (imageStrategy) Grade(q questionbank.Question, a Answer) (Result, error) {
	if a.ClickedCoordinates == nil {
		return Result{}, ErrInvalidAnswerFormat
	}
	p := *a.ClickedCoordinates
	for _, z := range q.Zones {
		if math.Hypot(p.X-z.X, p.Y-z.Y) <= z.Radius {
			return Result{Correct: true, Message: "Correct"}, nil
		}
	}
	return Result{Message: "Incorrect"}, nil
}

type matchingStrategy struct{}

func (matchingStrategy) Grade(q questionbank.Question, a Answer) (Result, error) {
	if len(a.MatchedPairs) == 0 {
		return Result{}, ErrInvalidAnswerFormat
	}
	want := make(map[string]string, len(q.Pairs))
	for _, p := range q.Pairs {
		want[p.LeftID] = p.RightID
	}
	seen := make(map[string]struct{}, len(a.MatchedPairs))
	for _, p := range a.MatchedPairs {
		if _, dup := seen[p.LeftID]; dup {
			return Result{}, ErrInvalidAnswerFormat
		}
		if _, ok := want[p.LeftID]; !ok {
			return Result{}, ErrInvalidAnswerFormat
		}
		seen[p.LeftID] = struct{}{}
	}
	if len(a.MatchedPairs) != len(want) {
		return Result{Message: "Incorrect"}, nil
	}
	for _, p := range a.MatchedPairs {
		if want[p.LeftID] != p.RightID {
			return Result{Message: "Incorrect"}, nil
		}
	}
	return Result{Correct: true, Message: "Correct"}, nil
}
