package grading

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"  paris  ", "paris"},
		{"la  \t paz", "la paz"},
		{"new\nyork", "new york"},
		{"Accented é stays", "Accented é stays"},
	}
	for _, tc := range cases {
		if got := normalize(tc.in); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"paris", "paris", 0},
		{"paris", "pariss", 1},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1}, // rune-wise, not byte-wise
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("paris", "paris"); got != 1 {
		t.Fatalf("identical strings: %g", got)
	}
	if got := similarity("", ""); got != 1 {
		t.Fatalf("empty strings: %g", got)
	}
	got := similarity("paris", "pariss")
	want := 1 - 1.0/6.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("similarity = %g, want %g", got, want)
	}
}
