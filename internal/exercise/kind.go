package exercise

import (
	"fmt"
	"time"
)

// Kind identifies an exercise. The string value is the wire name.
type Kind string

const (
	KindCounting   Kind = "counting"
	KindArithmetic Kind = "arithmetic"
	KindReading    Kind = "reading"
	KindStroop     Kind = "stroop"
	KindMemory     Kind = "memory"
)

// Order is the fixed sequence a session runs exercises in.
var Order = []Kind{KindCounting, KindArithmetic, KindReading, KindStroop, KindMemory}

// ParseKind resolves a wire name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Order {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown exercise %q", s)
}

// Index returns the position of k in Order, or -1.
func (k Kind) Index() int {
	for i, o := range Order {
		if o == k {
			return i
		}
	}
	return -1
}

// Label is the display name.
func (k Kind) Label() string {
	switch k {
	case KindCounting:
		return "Counting Aloud"
	case KindArithmetic:
		return "Arithmetic"
	case KindReading:
		return "Reading Aloud"
	case KindStroop:
		return "Stroop Test"
	case KindMemory:
		return "Word Memory"
	default:
		return string(k)
	}
}

// Timed reports whether the exercise is scored by elapsed time only.
func (k Kind) Timed() bool {
	return k == KindCounting || k == KindReading
}

// Result is the normalized outcome of one finished exercise. It is created
// once and never modified afterwards.
type Result struct {
	Kind           Kind
	Score          int
	ElapsedSeconds int
	CorrectCount   int
	TotalItems     int
	Details        map[string]any
	FinishedAt     time.Time
}

// Accuracy returns CorrectCount/TotalItems, or 0 for a zero-item result.
func (r Result) Accuracy() float64 {
	if r.TotalItems == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalItems)
}

// Phase is the lifecycle position of a controller.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseActive
	PhaseFeedback
	PhaseMemorize
	PhaseRecall
	PhaseFinished
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseActive:
		return "active"
	case PhaseFeedback:
		return "feedback"
	case PhaseMemorize:
		return "memorize"
	case PhaseRecall:
		return "recall"
	case PhaseFinished:
		return "finished"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether no further transitions happen without a reload.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseFailed
}
