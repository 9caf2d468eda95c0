package leitner

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Weights is the per-level sampling bias curve, index 0 = box 1. The curve
// must be positive and strictly decreasing so less-mastered material is
// always favored.
type Weights [NumLevels]float64

// DefaultWeights is the stock curve: box 1 is five times as likely to be
// sampled as box 5 for equal bucket sizes.
func DefaultWeights() Weights {
	return Weights{0.40, 0.25, 0.15, 0.12, 0.08}
}

// ForLevel returns the weight for a box level in [1,5].
func (w Weights) ForLevel(level int) float64 {
	if level < MinLevel || level > MaxLevel {
		return 0
	}
	return w[level-1]
}

func (w Weights) Validate() error {
	for i, v := range w {
		if v <= 0 {
			return fmt.Errorf("weight for box %d must be positive, got %g", i+1, v)
		}
		if i > 0 && v >= w[i-1] {
			return fmt.Errorf("weights must strictly decrease, box %d (%g) >= box %d (%g)",
				i+1, v, i, w[i-1])
		}
	}
	return nil
}

// ParseWeights reads a comma-separated 5-float curve, e.g.
// "0.40,0.25,0.15,0.12,0.08".
func ParseWeights(s string) (Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != NumLevels {
		return Weights{}, fmt.Errorf("expected %d weights, got %d", NumLevels, len(parts))
	}
	var w Weights
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Weights{}, fmt.Errorf("weight %d: %w", i+1, err)
		}
		w[i] = v
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// allocate distributes count slots across the five buckets proportionally to
// weight(level) * bucketSize(level), using largest-remainder rounding. When
// an allocation exceeds its bucket, the overflow moves to the lowest-numbered
// bucket that still has spare capacity. The caller guarantees that total
// capacity is at least count.
func allocate(sizes [NumLevels]int, count int, w Weights) [NumLevels]int {
	var alloc [NumLevels]int
	if count <= 0 {
		return alloc
	}

	var raw [NumLevels]float64
	total := 0.0
	for i := 0; i < NumLevels; i++ {
		raw[i] = w[i] * float64(sizes[i])
		total += raw[i]
	}
	if total == 0 {
		return alloc
	}

	// Integer part of each quota, then hand out the leftover slots by
	// largest fractional remainder (ties favor the lower box).
	type frac struct {
		level int
		rem   float64
	}
	assigned := 0
	rems := make([]frac, 0, NumLevels)
	for i := 0; i < NumLevels; i++ {
		quota := float64(count) * raw[i] / total
		alloc[i] = int(math.Floor(quota))
		assigned += alloc[i]
		rems = append(rems, frac{level: i, rem: quota - math.Floor(quota)})
	}
	sort.SliceStable(rems, func(a, b int) bool {
		if rems[a].rem != rems[b].rem {
			return rems[a].rem > rems[b].rem
		}
		return rems[a].level < rems[b].level
	})
	for k := 0; assigned < count; k = (k + 1) % len(rems) {
		alloc[rems[k].level]++
		assigned++
	}

	// Cap each bucket at its size and push the shortfall down to the
	// lowest-numbered bucket with room, biasing toward weaker material.
	short := 0
	for i := 0; i < NumLevels; i++ {
		if alloc[i] > sizes[i] {
			short += alloc[i] - sizes[i]
			alloc[i] = sizes[i]
		}
	}
	for i := 0; i < NumLevels && short > 0; i++ {
		room := sizes[i] - alloc[i]
		if room <= 0 {
			continue
		}
		take := room
		if take > short {
			take = short
		}
		alloc[i] += take
		short -= take
	}
	return alloc
}
