// Package router keeps the stack of screens behind the app frame. Screens
// navigate by returning the messages below from their commands; the
// router is their only consumer.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/devndesk/DevReady/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the previous screen. The root is never popped.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen, e.g. splash to login.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// ResetScreenMsg closes everything and starts over from Screen. Sent when
// the signed-in user changes.
type ResetScreenMsg struct {
	Screen screen.Screen
}

type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Depth() int { return len(r.stack) }

// Active is the screen that receives input, or nil on an empty stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	r.dropTop()
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) > 0 {
		r.dropTop()
	}
	return r.Push(s)
}

// Reset closes screens top-down so children go before their parents.
func (r *Router) Reset(s screen.Screen) tea.Cmd {
	for len(r.stack) > 0 {
		r.dropTop()
	}
	return r.Push(s)
}

// Update applies navigation messages and forwards anything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}
	if len(r.stack) == 0 {
		return nil
	}
	return r.deliver(len(r.stack)-1, msg)
}

// Broadcast delivers msg to every screen, bottom first, so screens under
// the active one stay current with shared state such as the profile.
func (r *Router) Broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(r.stack))
	for i := range r.stack {
		cmds = append(cmds, r.deliver(i, msg))
	}
	return tea.Batch(cmds...)
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}

func (r *Router) deliver(i int, msg tea.Msg) tea.Cmd {
	next, cmd := r.stack[i].Update(msg)
	r.stack[i] = next
	return cmd
}

func (r *Router) dropTop() {
	top := r.stack[len(r.stack)-1]
	if c, ok := top.(screen.Closer); ok {
		c.Close()
	}
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
}
