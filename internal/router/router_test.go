package router

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/screen"
)

type fakeScreen struct {
	name   string
	inits  int
	closed int
}

func (f *fakeScreen) Init() tea.Cmd                           { f.inits++; return nil }
func (f *fakeScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return f, nil }
func (f *fakeScreen) View(int, int) string                    { return f.name }
func (f *fakeScreen) Title() string                           { return f.name }
func (f *fakeScreen) Close() tea.Cmd {
	f.closed++
	return func() tea.Msg { return closedMsg{name: f.name} }
}

type closedMsg struct{ name string }

// plainScreen does not implement screen.Closer.
type plainScreen struct{ name string }

func (p plainScreen) Init() tea.Cmd                           { return nil }
func (p plainScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return p, nil }
func (p plainScreen) View(int, int) string                    { return p.name }
func (p plainScreen) Title() string                           { return p.name }

// titles lists the stack bottom to top.
func titles(r *Router) string {
	names := make([]string, len(r.stack))
	for i, s := range r.stack {
		names[i] = s.Title()
	}
	return strings.Join(names, ">")
}

func TestRouter_Navigation(t *testing.T) {
	tests := []struct {
		name string
		msgs func(*fakeScreen) []tea.Msg
		want string
	}{
		{
			name: "push",
			msgs: func(s *fakeScreen) []tea.Msg { return []tea.Msg{PushScreenMsg{Screen: s}} },
			want: "home>session",
		},
		{
			name: "push then pop",
			msgs: func(s *fakeScreen) []tea.Msg { return []tea.Msg{PushScreenMsg{Screen: s}, PopScreenMsg{}} },
			want: "home",
		},
		{
			name: "pop keeps root",
			msgs: func(*fakeScreen) []tea.Msg { return []tea.Msg{PopScreenMsg{}, PopScreenMsg{}} },
			want: "home",
		},
		{
			name: "replace root",
			msgs: func(s *fakeScreen) []tea.Msg { return []tea.Msg{ReplaceScreenMsg{Screen: s}} },
			want: "session",
		},
		{
			name: "replace top keeps depth",
			msgs: func(s *fakeScreen) []tea.Msg {
				return []tea.Msg{
					PushScreenMsg{Screen: plainScreen{name: "history"}},
					ReplaceScreenMsg{Screen: s},
				}
			},
			want: "home>session",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(plainScreen{name: "home"})
			s := &fakeScreen{name: "session"}
			for _, msg := range tc.msgs(s) {
				r.Update(msg)
			}
			if got := titles(r); got != tc.want {
				t.Errorf("stack = %q, want %q", got, tc.want)
			}
			if got := r.View(80, 24); got != r.Active().Title() {
				t.Errorf("View = %q, want the active screen", got)
			}
		})
	}
}

func TestRouter_InitRunsOnEntry(t *testing.T) {
	root := &fakeScreen{name: "home"}
	r := New(root)
	r.Init()
	if root.inits != 1 {
		t.Errorf("root inits = %d, want 1", root.inits)
	}

	pushed := &fakeScreen{name: "session"}
	r.Push(pushed)
	replaced := &fakeScreen{name: "results"}
	r.Replace(replaced)
	if pushed.inits != 1 || replaced.inits != 1 {
		t.Errorf("inits = %d/%d, want 1/1", pushed.inits, replaced.inits)
	}
}

func TestRouter_ClosesLeavingScreens(t *testing.T) {
	root := &fakeScreen{name: "home"}
	r := New(root)

	popped := &fakeScreen{name: "history"}
	r.Push(popped)
	cmd := r.Pop()
	if popped.closed != 1 {
		t.Errorf("popped closed %d times, want 1", popped.closed)
	}
	if cmd == nil {
		t.Fatal("expected the cleanup command of the popped screen")
	}
	if msg, ok := cmd().(closedMsg); !ok || msg.name != "history" {
		t.Errorf("cleanup produced %#v", msg)
	}

	replaced := &fakeScreen{name: "session"}
	r.Push(replaced)
	r.Replace(&fakeScreen{name: "results"})
	if replaced.closed != 1 {
		t.Errorf("replaced closed %d times, want 1", replaced.closed)
	}
	if root.closed != 0 {
		t.Error("root must stay open")
	}
}

func TestRouter_Unwind(t *testing.T) {
	root := &fakeScreen{name: "home"}
	r := New(root)
	a, b := &fakeScreen{name: "a"}, &fakeScreen{name: "b"}
	r.Push(a)
	r.Push(b)

	cmd := r.Unwind()

	if r.Depth() != 1 || r.Active() != screen.Screen(root) {
		t.Fatalf("stack = %q, want home", titles(r))
	}
	if a.closed != 1 || b.closed != 1 || root.closed != 0 {
		t.Errorf("closed a=%d b=%d root=%d", a.closed, b.closed, root.closed)
	}
	if cmd == nil {
		t.Fatal("expected cleanup commands")
	}
	if batch, ok := cmd().(tea.BatchMsg); !ok || len(batch) != 2 {
		t.Errorf("cleanup = %#v, want a batch of two", batch)
	}
}
