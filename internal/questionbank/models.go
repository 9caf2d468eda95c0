package questionbank

import "fmt"

// Type discriminates the polymorphic question payloads.
type Type string

const (
	TypeQCM       Type = "QCM"
	TypeTrueFalse Type = "TRUE_FALSE"
	TypeText      Type = "TEXT"
	TypeImage     Type = "IMAGE"
	TypeMatching  Type = "MATCHING"
)

func (t Type) Valid() bool {
	switch t {
	case TypeQCM, TypeTrueFalse, TypeText, TypeImage, TypeMatching:
		return true
	}
	return false
}

// Option is one answer choice for QCM and TRUE_FALSE questions.
type Option struct {
	ID           string `json:"id"`
	TextChoice   string `json:"text_choice"`
	IsCorrect    bool   `json:"is_correct"`
	DisplayOrder int    `json:"display_order"`
}

// MatchingPair is one authoritative left/right association.
type MatchingPair struct {
	LeftID    string `json:"left_id"`
	ItemLeft  string `json:"item_left"`
	RightID   string `json:"right_id"`
	ItemRight string `json:"item_right"`
}

// ImageZone is a clickable circular region on the question media.
type ImageZone struct {
	LabelName string  `json:"label_name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
}

// TextAnswer carries the accepted answer for TEXT questions plus the two
// grading toggles the teacher can set independently.
type TextAnswer struct {
	AcceptedAnswer       string `json:"accepted_answer"`
	IsCaseSensitive      bool   `json:"is_case_sensitive"`
	IgnoreSpellingErrors bool   `json:"ignore_spelling_errors"`
}

// Question is the authoritative question record. Exactly one of the payload
// fields is populated, selected by Type.
type Question struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroom_id"`
	Type        Type   `json:"type"`
	ContentText string `json:"content_text"`
	Explanation string `json:"explanation,omitempty"`
	MediaKey    string `json:"media_key,omitempty"`

	Options []Option       `json:"options,omitempty"`        // QCM, TRUE_FALSE
	Pairs   []MatchingPair `json:"matching_pairs,omitempty"` // MATCHING
	Zones   []ImageZone    `json:"image_zones,omitempty"`    // IMAGE
	Text    *TextAnswer    `json:"text_config,omitempty"`    // TEXT
}

type Classroom struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Validate checks that the payload matches the declared type.
func (q Question) Validate() error {
	if !q.Type.Valid() {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.ContentText == "" {
		return fmt.Errorf("content_text required")
	}
	switch q.Type {
	case TypeQCM:
		if len(q.Options) < 2 {
			return fmt.Errorf("QCM needs at least 2 options")
		}
		if countCorrect(q.Options) != 1 {
			return fmt.Errorf("QCM needs exactly one correct option")
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("TRUE_FALSE needs exactly 2 options")
		}
		if countCorrect(q.Options) != 1 {
			return fmt.Errorf("TRUE_FALSE needs exactly one correct option")
		}
	case TypeText:
		if q.Text == nil || q.Text.AcceptedAnswer == "" {
			return fmt.Errorf("TEXT needs an accepted answer")
		}
	case TypeImage:
		if len(q.Zones) == 0 {
			return fmt.Errorf("IMAGE needs at least one zone")
		}
		for _, z := range q.Zones {
			if z.Radius <= 0 {
				return fmt.Errorf("zone %q needs a positive radius", z.LabelName)
			}
		}
	case TypeMatching:
		if len(q.Pairs) == 0 {
			return fmt.Errorf("MATCHING needs at least one pair")
		}
	}
	return nil
}

// CorrectOptionID returns the id of the option flagged correct.
// Empty when the question has no option set.
func (q Question) CorrectOptionID() string {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return ""
}

// CorrectAnswerText renders the authoritative answer for session review
// screens: the correct option label, the accepted text, the zone labels, or
// the "left -> right" pair list.
func (q Question) CorrectAnswerText() string {
	switch q.Type {
	case TypeQCM, TypeTrueFalse:
		for _, o := range q.Options {
			if o.IsCorrect {
				return o.TextChoice
			}
		}
	case TypeText:
		if q.Text != nil {
			return q.Text.AcceptedAnswer
		}
	case TypeImage:
		out := ""
		for i, z := range q.Zones {
			if i > 0 {
				out += ", "
			}
			out += z.LabelName
		}
		return out
	case TypeMatching:
		out := ""
		for i, p := range q.Pairs {
			if i > 0 {
				out += "; "
			}
			out += p.ItemLeft + " -> " + p.ItemRight
		}
		return out
	}
	return ""
}

func countCorrect(opts []Option) int {
	n := 0
	for _, o := range opts {
		if o.IsCorrect {
			n++
		}
	}
	return n
}
