// Package router keeps the stack of screens and applies navigation
// messages sent by them.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpace/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen and returns to the one below.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen without changing the depth.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and re-initializes the one it uncovers, so
// a form can take focus again. It is a no-op on the last screen.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	top := len(r.stack) - 1
	closeScreen(r.stack[top])
	r.stack[top] = nil
	r.stack = r.stack[:top]
	return r.stack[top-1].Init()
}

// Replace closes the top screen and opens s in its place.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		r.stack = append(r.stack, s)
		return s.Init()
	}
	top := len(r.stack) - 1
	closeScreen(r.stack[top])
	r.stack[top] = s
	return s.Init()
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

// Active returns the top screen, or nil when the stack is empty.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and forwards everything else to
// the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
