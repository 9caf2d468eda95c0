package grading

import (
	"errors"
	"testing"

	"github.com/revisia/revisia-backend/internal/questionbank"
)

func qcmQuestion() questionbank.Question {
	return questionbank.Question{
		ID: "q1", Type: questionbank.TypeQCM, ContentText: "capital of France?",
		Options: []questionbank.Option{
			{ID: "o1", TextChoice: "Paris", IsCorrect: true, DisplayOrder: 1},
			{ID: "o2", TextChoice: "London", DisplayOrder: 2},
			{ID: "o3", TextChoice: "Berlin", DisplayOrder: 3},
		},
	}
}

func textQuestion(caseSensitive, tolerant bool) questionbank.Question {
	return questionbank.Question{
		ID: "q2", Type: questionbank.TypeText, ContentText: "process plants use to make food?",
		Text: &questionbank.TextAnswer{
			AcceptedAnswer:       "photosynthesis",
			IsCaseSensitive:      caseSensitive,
			IgnoreSpellingErrors: tolerant,
		},
	}
}

func TestGradeTypeMismatch(t *testing.T) {
	g := NewDefaultGrader()
	_, err := g.Grade(qcmQuestion(), Answer{QuestionID: "q1", Type: questionbank.TypeText, TextResponse: "Paris"})
	if !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("got %v, want ErrInvalidAnswerFormat", err)
	}
}

func TestGradeQCM(t *testing.T) {
	g := NewDefaultGrader()
	q := qcmQuestion()

	res, err := g.Grade(q, Answer{QuestionID: "q1", Type: questionbank.TypeQCM, SelectedOptionID: "o1"})
	if err != nil || !res.Correct {
		t.Fatalf("correct option: %+v %v", res, err)
	}
	res, err = g.Grade(q, Answer{QuestionID: "q1", Type: questionbank.TypeQCM, SelectedOptionID: "o2"})
	if err != nil || res.Correct {
		t.Fatalf("wrong option: %+v %v", res, err)
	}
	// option id that is not on the question is a malformed payload
	if _, err := g.Grade(q, Answer{QuestionID: "q1", Type: questionbank.TypeQCM, SelectedOptionID: "o9"}); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("unknown option: %v", err)
	}
	if _, err := g.Grade(q, Answer{QuestionID: "q1", Type: questionbank.TypeQCM}); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("missing option: %v", err)
	}
}

func TestGradeTrueFalse(t *testing.T) {
	g := NewDefaultGrader()
	q := questionbank.Question{
		ID: "q3", Type: questionbank.TypeTrueFalse, ContentText: "Paris is in France",
		Options: []questionbank.Option{
			{ID: "t", TextChoice: "True", IsCorrect: true, DisplayOrder: 1},
			{ID: "f", TextChoice: "False", DisplayOrder: 2},
		},
	}
	res, err := g.Grade(q, Answer{QuestionID: "q3", Type: questionbank.TypeTrueFalse, SelectedOptionID: "t"})
	if err != nil || !res.Correct {
		t.Fatalf("true: %+v %v", res, err)
	}
	res, err = g.Grade(q, Answer{QuestionID: "q3", Type: questionbank.TypeTrueFalse, SelectedOptionID: "f"})
	if err != nil || res.Correct {
		t.Fatalf("false: %+v %v", res, err)
	}
}

func TestGradeText(t *testing.T) {
	g := NewDefaultGrader()
	cases := []struct {
		name          string
		caseSensitive bool
		tolerant      bool
		response      string
		correct       bool
	}{
		{"exact", false, false, "photosynthesis", true},
		{"case folded", false, false, "Photosynthesis", true},
		{"case enforced", true, false, "Photosynthesis", false},
		{"whitespace normalized", false, false, "  photosynthesis \n", true},
		{"typo rejected when strict", false, false, "photosynthesys", false},
		{"typo tolerated", false, true, "photosynthesys", true},
		{"too far off even when tolerant", false, true, "fotosintesis", false},
		{"wrong answer", false, true, "respiration", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := textQuestion(tc.caseSensitive, tc.tolerant)
			res, err := g.Grade(q, Answer{QuestionID: "q2", Type: questionbank.TypeText, TextResponse: tc.response})
			if err != nil {
				t.Fatal(err)
			}
			if res.Correct != tc.correct {
				t.Fatalf("response %q: correct=%v, want %v", tc.response, res.Correct, tc.correct)
			}
		})
	}

	// blank responses are malformed, not incorrect
	if _, err := g.Grade(textQuestion(false, false), Answer{QuestionID: "q2", Type: questionbank.TypeText, TextResponse: "   "}); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("blank response: %v", err)
	}
}

func TestGradeTextSpellingToleranceDefaults(t *testing.T) {
	g := NewDefaultGrader()
	q := questionbank.Question{
		ID: "q4", Type: questionbank.TypeText, ContentText: "capital of France?",
		Text: &questionbank.TextAnswer{AcceptedAnswer: "Paris", IgnoreSpellingErrors: true},
	}
	cases := []struct {
		response string
		correct  bool
	}{
		{"Paris", true},
		{"paris", true},
		// one trailing edit over 6 runes, similarity ~0.83: within tolerance
		{"Pariss", true},
		{"London", false},
	}
	for _, tc := range cases {
		res, err := g.Grade(q, Answer{QuestionID: "q4", Type: questionbank.TypeText, TextResponse: tc.response})
		if err != nil {
			t.Fatal(err)
		}
		if res.Correct != tc.correct {
			t.Fatalf("response %q: correct=%v, want %v", tc.response, res.Correct, tc.correct)
		}
	}
}

func TestGradeTextToleranceOption(t *testing.T) {
	// "roma" vs "rome" is 1 edit over 4 runes, similarity 0.75: below the
	// stock threshold but fine at 0.75.
	q := questionbank.Question{
		ID: "q7", Type: questionbank.TypeText, ContentText: "capital of Italy?",
		Text: &questionbank.TextAnswer{AcceptedAnswer: "Rome", IgnoreSpellingErrors: true},
	}
	ans := Answer{QuestionID: "q7", Type: questionbank.TypeText, TextResponse: "Roma"}

	strict := NewDefaultGrader()
	res, err := strict.Grade(q, ans)
	if err != nil || res.Correct {
		t.Fatalf("default tolerance: %+v %v", res, err)
	}

	loose := NewDefaultGrader(WithToleranceRatio(0.75))
	res, err = loose.Grade(q, ans)
	if err != nil || !res.Correct {
		t.Fatalf("loose tolerance: %+v %v", res, err)
	}
	if res.Message != "Correct (close spelling)" {
		t.Fatalf("message %q", res.Message)
	}
}

func TestGradeImage(t *testing.T) {
	g := NewDefaultGrader()
	q := questionbank.Question{
		ID: "q5", Type: questionbank.TypeImage, ContentText: "click Paris",
		Zones: []questionbank.ImageZone{
			{LabelName: "Paris", X: 100, Y: 100, Radius: 10},
			{LabelName: "Lyon", X: 300, Y: 200, Radius: 10},
		},
	}
	cases := []struct {
		name    string
		p       Point
		correct bool
	}{
		{"dead center", Point{X: 100, Y: 100}, true},
		{"on the edge", Point{X: 110, Y: 100}, true},
		{"inside second zone", Point{X: 295, Y: 204}, true},
		{"just outside", Point{X: 111, Y: 100}, false},
		{"nowhere near", Point{X: 0, Y: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.p
			res, err := g.Grade(q, Answer{QuestionID: "q5", Type: questionbank.TypeImage, ClickedCoordinates: &p})
			if err != nil {
				t.Fatal(err)
			}
			if res.Correct != tc.correct {
				t.Fatalf("click %+v: correct=%v, want %v", tc.p, res.Correct, tc.correct)
			}
		})
	}

	if _, err := g.Grade(q, Answer{QuestionID: "q5", Type: questionbank.TypeImage}); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("missing coordinates: %v", err)
	}
}

func TestGradeMatching(t *testing.T) {
	g := NewDefaultGrader()
	q := questionbank.Question{
		ID: "q6", Type: questionbank.TypeMatching, ContentText: "match capitals",
		Pairs: []questionbank.MatchingPair{
			{LeftID: "l1", ItemLeft: "France", RightID: "r1", ItemRight: "Paris"},
			{LeftID: "l2", ItemLeft: "Spain", RightID: "r2", ItemRight: "Madrid"},
			{LeftID: "l3", ItemLeft: "Italy", RightID: "r3", ItemRight: "Rome"},
		},
	}
	mk := func(pairs ...MatchedPair) Answer {
		return Answer{QuestionID: "q6", Type: questionbank.TypeMatching, MatchedPairs: pairs}
	}

	res, err := g.Grade(q, mk(MatchedPair{"l1", "r1"}, MatchedPair{"l2", "r2"}, MatchedPair{"l3", "r3"}))
	if err != nil || !res.Correct {
		t.Fatalf("all matched: %+v %v", res, err)
	}
	// order of submitted pairs is irrelevant
	res, err = g.Grade(q, mk(MatchedPair{"l3", "r3"}, MatchedPair{"l1", "r1"}, MatchedPair{"l2", "r2"}))
	if err != nil || !res.Correct {
		t.Fatalf("reordered: %+v %v", res, err)
	}
	res, err = g.Grade(q, mk(MatchedPair{"l1", "r2"}, MatchedPair{"l2", "r1"}, MatchedPair{"l3", "r3"}))
	if err != nil || res.Correct {
		t.Fatalf("swapped pair: %+v %v", res, err)
	}
	// missing a pair is incorrect, not malformed
	res, err = g.Grade(q, mk(MatchedPair{"l1", "r1"}, MatchedPair{"l2", "r2"}))
	if err != nil || res.Correct {
		t.Fatalf("partial: %+v %v", res, err)
	}

	if _, err := g.Grade(q, mk()); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("empty pairs: %v", err)
	}
	if _, err := g.Grade(q, mk(MatchedPair{"l1", "r1"}, MatchedPair{"l1", "r2"}, MatchedPair{"l3", "r3"})); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("duplicate left: %v", err)
	}
	if _, err := g.Grade(q, mk(MatchedPair{"bogus", "r1"})); !errors.Is(err, ErrInvalidAnswerFormat) {
		t.Fatalf("unknown left: %v", err)
	}
}
