package leitner

// nextLevel applies the box transition policy: correct answers promote one
// level capped at MaxLevel, incorrect (including unanswered) demote one
// level floored at MinLevel. Failure never resets straight to box 1.
func nextLevel(level int, correct bool) int {
	if correct {
		if level >= MaxLevel {
			return MaxLevel
		}
		return level + 1
	}
	if level <= MinLevel {
		return MinLevel
	}
	return level - 1
}

// distribution aggregates the classroom's full question set into per-level
// boxes. Questions without an assignment count as box 1.
func distribution(questionIDs []string, levels map[string]int, w Weights) []Box {
	var counts [NumLevels]int
	for _, id := range questionIDs {
		counts[levelOf(levels, id)-1]++
	}
	total := len(questionIDs)
	boxes := make([]Box, NumLevels)
	for i := 0; i < NumLevels; i++ {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[i]) / float64(total) * 100
		}
		boxes[i] = Box{
			Level:           i + 1,
			QuestionCount:   counts[i],
			Percentage:      pct,
			SelectionWeight: w[i],
		}
	}
	return boxes
}

// boxCounts folds the same aggregation into the box1..box5 wire shape.
func boxCounts(questionIDs []string, levels map[string]int) SelectionDistribution {
	var d SelectionDistribution
	for _, id := range questionIDs {
		d.add(levelOf(levels, id))
	}
	return d
}
