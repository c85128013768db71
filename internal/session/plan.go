package session

import (
	"fmt"
	"slices"

	"github.com/abhisek/braingym/internal/exercise"
)

// Plan is the ordered list of exercises a session runs.
type Plan []exercise.Kind

// PlanFrom returns the fixed order starting at start. An empty start means
// the whole order.
func PlanFrom(start exercise.Kind) (Plan, error) {
	if start == "" {
		return Plan(slices.Clone(exercise.Order)), nil
	}
	i := start.Index()
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, start)
	}
	return Plan(slices.Clone(exercise.Order[i:])), nil
}

// Index returns the position of k in the plan, or -1.
func (p Plan) Index(k exercise.Kind) int {
	for i, kk := range p {
		if kk == k {
			return i
		}
	}
	return -1
}

// After returns the kind following k, or false when k is last or absent.
func (p Plan) After(k exercise.Kind) (exercise.Kind, bool) {
	i := p.Index(k)
	if i < 0 || i+1 >= len(p) {
		return "", false
	}
	return p[i+1], true
}
