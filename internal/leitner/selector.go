package leitner

import (
	"math/rand"

	"github.com/revisia/revisia-backend/internal/questionbank"
)

func validCount(count int) bool {
	for _, c := range ValidCounts {
		if c == count {
			return true
		}
	}
	return false
}

// levelOf returns the current box level for a question, defaulting to
// MinLevel when the student never attempted it.
func levelOf(levels map[string]int, questionID string) int {
	if l, ok := levels[questionID]; ok {
		return l
	}
	return MinLevel
}

// selectQuestions picks a weighted, deduplicated sample of count questions.
// Buckets are filled according to allocate, sampled uniformly without
// replacement, and the concatenation is shuffled so presentation order does
// not reveal box levels.
func selectQuestions(questions []questionbank.Question, levels map[string]int, count int, w Weights, rng *rand.Rand) ([]SelectedQuestion, SelectionDistribution, error) {
	if !validCount(count) {
		return nil, SelectionDistribution{}, ErrInvalidCount
	}
	if len(questions) < count {
		return nil, SelectionDistribution{}, ErrInsufficientQuestions
	}

	var buckets [NumLevels][]string
	var sizes [NumLevels]int
	for _, q := range questions {
		l := levelOf(levels, q.ID)
		buckets[l-1] = append(buckets[l-1], q.ID)
		sizes[l-1]++
	}

	alloc := allocate(sizes, count, w)

	var dist SelectionDistribution
	out := make([]SelectedQuestion, 0, count)
	for i := 0; i < NumLevels; i++ {
		if alloc[i] == 0 {
			continue
		}
		b := buckets[i]
		rng.Shuffle(len(b), func(x, y int) { b[x], b[y] = b[y], b[x] })
		for _, id := range b[:alloc[i]] {
			out = append(out, SelectedQuestion{QuestionID: id, Level: i + 1})
			dist.add(i + 1)
		}
	}
	rng.Shuffle(len(out), func(x, y int) { out[x], out[y] = out[y], out[x] })
	return out, dist, nil
}
