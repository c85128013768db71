package results

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/session"
)

func testSummary() session.Summary {
	return session.BuildSummary("s-1", 5, []exercise.Result{
		{Kind: exercise.KindCounting, ElapsedSeconds: 65},
		{Kind: exercise.KindArithmetic, Score: 18, CorrectCount: 18, TotalItems: 20, ElapsedSeconds: 120},
	})
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(testSummary(), nil)
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_Display(t *testing.T) {
	s := New(testSummary(), []string{"Stroop Test result was not saved: boom"})
	view := s.View(100, 30)

	for _, want := range []string{
		"Session ended (2 of 5 exercises)",
		"Total score: 18",
		"Time: 03:05",
		"18/20 correct",
		"not saved",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_CompleteTitle(t *testing.T) {
	sum := testSummary()
	sum.Planned = sum.Completed
	view := New(sum, nil).View(100, 30)
	if !strings.Contains(view, "Session complete!") {
		t.Error("expected completion title")
	}
}

func TestResultsScreen_EmptySummary(t *testing.T) {
	s := New(session.Summary{Duration: 0 * time.Second}, nil)
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view")
	}
}

func TestResultsScreen_Navigation(t *testing.T) {
	for _, key := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testSummary(), nil)
		_, cmd := s.Update(tea.KeyPressMsg{Code: key})
		if cmd == nil {
			t.Fatalf("expected a command on key %v", key)
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg on key %v", key)
		}
	}
}

func TestResultsScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), nil)
	if hints := s.KeyHints(); len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
