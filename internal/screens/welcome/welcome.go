// Package welcome is the boot splash: a few typed-out status lines, then the
// banner. It hands over on any key or after a short hold.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

const (
	frame     = 100 * time.Millisecond
	perLine   = 400 * time.Millisecond
	bannerAt  = 1600 * time.Millisecond
	advanceAt = 4 * time.Second

	// blinkFrames is the cursor half-period.
	blinkFrames = 3
)

var bootLines = []string{
	"$ devready",
	"  restoring profile cache ... ok",
	"  warming up quiz engine .... ok",
	"  checking league standings . ok",
}

const tagline = "Level up before the interview."

type frameMsg struct{}

// WelcomeScreen is stateful only in elapsed time; next is called at most
// once.
type WelcomeScreen struct {
	next    func() screen.Screen
	elapsed time.Duration
	frames  int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frame, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		w.elapsed += frame
		w.frames++
		if w.elapsed >= advanceAt {
			return w, w.handOver()
		}
		return w, nextFrame()
	case tea.KeyPressMsg:
		return w, w.handOver()
	}
	return w, nil
}

func (w *WelcomeScreen) handOver() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	target := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: target} }
}

func (w *WelcomeScreen) typed() int {
	return min(int(w.elapsed/perLine)+1, len(bootLines))
}

func (w *WelcomeScreen) View(width, height int) string {
	prompt := lipgloss.NewStyle().Foreground(theme.Primary)

	var b strings.Builder
	for i, line := range bootLines[:w.typed()] {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(theme.Hint.UnsetItalic().Render(line))
			continue
		}
		b.WriteString(prompt.Render(line))
	}

	if w.elapsed < bannerAt {
		if (w.frames/blinkFrames)%2 == 0 {
			b.WriteString(prompt.Render("█"))
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		b.String(),
		"",
		RenderBanner(width),
		"",
		theme.Body.Bold(true).Render(tagline),
		"",
		theme.Hint.Render("press any key to continue"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
