package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/exercise"
	"github.com/abhisek/braingym/internal/router"
	"github.com/abhisek/braingym/internal/screens/training"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	cat, err := content.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return Options{Training: training.Config{Provider: content.NewLocal(cat, nil, 3)}}
}

func TestNewAppModel_StartsAtHome(t *testing.T) {
	m := newAppModel(testOptions(t))
	if m.router.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", m.router.Depth())
	}
	if m.router.Active().Title() != "Home" {
		t.Errorf("active = %q, want Home", m.router.Active().Title())
	}
	if m.launch != nil {
		t.Error("expected no launch command")
	}
}

func TestNewAppModel_LaunchesSession(t *testing.T) {
	opts := testOptions(t)
	opts.Start = exercise.KindStroop
	m := newAppModel(opts)
	if m.launch == nil {
		t.Fatal("expected a launch command")
	}

	push, ok := m.launch().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	ts, ok := push.Screen.(*training.Screen)
	if !ok {
		t.Fatalf("pushed %T, want *training.Screen", push.Screen)
	}
	if ts.Status() != "Exercise 1/2" {
		t.Errorf("Status = %q, want %q", ts.Status(), "Exercise 1/2")
	}
}

func TestAppModel_EscPops(t *testing.T) {
	m := newAppModel(testOptions(t))
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("expected no pop at the bottom of the stack")
	}

	m.router.Push(training.New(testOptions(t).Training))
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestAppModel_WindowSize(t *testing.T) {
	model, cmd := newAppModel(testOptions(t)).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil {
		t.Error("expected no command on resize")
	}
	m := model.(AppModel)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
	m.View()
}
