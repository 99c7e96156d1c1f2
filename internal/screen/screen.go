// Package screen declares what the router needs from a page of the TUI and
// the optional capabilities a page may add on top.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/devndesk/DevReady/internal/ui/layout"
)

// Screen is one page on the router stack. View receives the body area only;
// the header and footer are drawn by the app frame around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is called once when the screen leaves the stack, whether popped,
// replaced or reset. Ticks and replies arriving afterwards must be dropped.
type Closer interface {
	Close()
}

// InputCapturer reports whether a text field has focus. While it does, the
// app forwards Esc and q to the screen instead of navigating.
type InputCapturer interface {
	CapturingInput() bool
}
