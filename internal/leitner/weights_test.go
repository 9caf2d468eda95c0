package leitner

import "testing"

func TestDefaultWeightsValid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestWeightsValidate(t *testing.T) {
	cases := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"default", Weights{0.40, 0.25, 0.15, 0.12, 0.08}, false},
		{"zero weight", Weights{0.40, 0.25, 0, 0.12, 0.08}, true},
		{"negative weight", Weights{0.40, 0.25, -0.1, 0.12, 0.08}, true},
		{"not decreasing", Weights{0.40, 0.25, 0.25, 0.12, 0.08}, true},
		{"increasing", Weights{0.08, 0.12, 0.15, 0.25, 0.40}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights("0.5, 0.2, 0.15, 0.1, 0.05")
	if err != nil {
		t.Fatalf("ParseWeights: %v", err)
	}
	if w.ForLevel(1) != 0.5 || w.ForLevel(5) != 0.05 {
		t.Fatalf("unexpected weights: %v", w)
	}

	for _, bad := range []string{
		"",
		"0.4,0.25,0.15",
		"0.4,0.25,0.15,0.12,0.08,0.01",
		"0.4,0.25,abc,0.12,0.08",
		"0.08,0.12,0.15,0.25,0.40",
	} {
		if _, err := ParseWeights(bad); err == nil {
			t.Errorf("ParseWeights(%q): want error", bad)
		}
	}
}

func TestForLevelOutOfRange(t *testing.T) {
	w := DefaultWeights()
	if w.ForLevel(0) != 0 || w.ForLevel(6) != 0 {
		t.Fatal("out-of-range level should weigh 0")
	}
}

func TestAllocate(t *testing.T) {
	w := DefaultWeights()
	cases := []struct {
		name  string
		sizes [NumLevels]int
		count int
		want  [NumLevels]int
	}{
		{
			name:  "uniform buckets favor low boxes",
			sizes: [NumLevels]int{4, 4, 4, 4, 4},
			count: 10,
			want:  [NumLevels]int{4, 3, 1, 1, 1},
		},
		{
			name:  "single populated bucket takes everything",
			sizes: [NumLevels]int{20, 0, 0, 0, 0},
			count: 10,
			want:  [NumLevels]int{10, 0, 0, 0, 0},
		},
		{
			name:  "overflow spills to lowest bucket with room",
			sizes: [NumLevels]int{2, 2, 2, 2, 12},
			count: 10,
			want:  [NumLevels]int{2, 2, 2, 1, 3},
		},
		{
			name:  "zero count",
			sizes: [NumLevels]int{4, 4, 4, 4, 4},
			count: 0,
			want:  [NumLevels]int{0, 0, 0, 0, 0},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := allocate(tc.sizes, tc.count, w)
			if got != tc.want {
				t.Fatalf("allocate(%v, %d) = %v, want %v", tc.sizes, tc.count, got, tc.want)
			}
		})
	}
}

func TestAllocateNeverExceedsBuckets(t *testing.T) {
	w := DefaultWeights()
	sizes := [NumLevels]int{1, 1, 1, 1, 16}
	got := allocate(sizes, 20, w)
	sum := 0
	for i := 0; i < NumLevels; i++ {
		if got[i] > sizes[i] {
			t.Fatalf("bucket %d over capacity: %d > %d", i+1, got[i], sizes[i])
		}
		sum += got[i]
	}
	if sum != 20 {
		t.Fatalf("allocated %d slots, want 20", sum)
	}
}
