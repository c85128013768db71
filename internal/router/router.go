// Package router keeps the stack of screens and applies navigation
// messages to it. The bottom screen is never removed.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/braingym/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the active screen for another, so that going back
// skips the replaced one.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens. Only the top one receives messages.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Init() tea.Cmd {
	if top := r.Active(); top != nil {
		return top.Init()
	}
	return nil
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen unless it is the root.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	return r.release(len(r.stack) - 1)
}

// Unwind closes every screen above the root and returns their cleanup
// commands.
func (r *Router) Unwind() tea.Cmd {
	var cmds []tea.Cmd
	for len(r.stack) > 1 {
		cmds = append(cmds, r.release(len(r.stack)-1))
	}
	return tea.Batch(cmds...)
}

// Replace closes the top screen, puts s in its place and returns its Init
// command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	n := len(r.stack)
	if n == 0 {
		return r.Push(s)
	}
	closing := closeScreen(r.stack[n-1])
	r.stack[n-1] = s
	return tea.Batch(closing, s.Init())
}

// release closes the screen at i and drops it and everything above it.
func (r *Router) release(i int) tea.Cmd {
	cmd := closeScreen(r.stack[i])
	r.stack[i] = nil
	r.stack = r.stack[:i]
	return cmd
}

func closeScreen(s screen.Screen) tea.Cmd {
	if c, ok := s.(screen.Closer); ok {
		return c.Close()
	}
	return nil
}

// Active returns the top screen, or nil for an empty stack.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case PushScreenMsg:
		return r.Push(m.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(m.Screen)
	}

	n := len(r.stack)
	if n == 0 {
		return nil
	}
	next, cmd := r.stack[n-1].Update(msg)
	r.stack[n-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if top := r.Active(); top != nil {
		return top.View(width, height)
	}
	return ""
}
