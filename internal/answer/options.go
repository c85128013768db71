package answer

import (
	"math/rand/v2"
	"time"
)

// Options returns count+1 unique integers for a multiple-choice question:
// the correct value plus count distractors, in a shuffled order.
//
// Distractors come from offsets of increasing magnitude k = 1, 2, 3, ...:
// odd k subtracts, even k adds. A candidate that is not positive is replaced
// by correct+k, and when that is not positive either (a negative answer) by
// k itself, so every distractor is positive. Candidates equal to the correct value or to an earlier distractor are
// skipped, so the result never contains duplicates.
//
// The order is a Fisher–Yates shuffle driven by rng. A nil rng uses a
// time-seeded source.
func Options(correct, count int, rng *rand.Rand) []int {
	if count < 0 {
		count = 0
	}
	out := make([]int, 0, count+1)
	out = append(out, correct)
	seen := map[int]bool{correct: true}

	for k := 1; len(out) < count+1; k++ {
		candidate := correct + k
		if k%2 == 1 {
			candidate = correct - k
		}
		if candidate <= 0 {
			candidate = correct + k
		}
		if candidate <= 0 {
			candidate = k
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, candidate)
	}

	Shuffle(out, rng)
	return out
}

// Shuffle permutes items in place with the Fisher–Yates algorithm.
func Shuffle[T any](items []T, rng *rand.Rand) {
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IndexOf returns the position of v in options, or -1.
func IndexOf(options []int, v int) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}
