package app

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/reconcile"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/screens/home"
	"github.com/devndesk/DevReady/internal/screens/login"
	"github.com/devndesk/DevReady/internal/screens/welcome"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

// AppModel owns the screen stack and draws the shared header and footer
// around the active screen.
type AppModel struct {
	svc         *services.Services
	router      *router.Router
	snapshots   <-chan reconcile.Snapshot
	unsubscribe func()
	width       int
	height      int
}

// NewAppModel restores the cached profile and, after the boot splash,
// starts on the dashboard or on the login screen when nobody is signed in.
func NewAppModel(ctx context.Context, svc *services.Services) AppModel {
	var initial screen.Screen
	if _, err := svc.Engine.Restore(ctx); err != nil {
		if !errors.Is(err, reconcile.ErrNoIdentity) {
			svc.Log.Warn("could not restore cached profile", zap.Error(err))
		}
		initial = newLogin(svc)
	} else {
		initial = home.New(svc)
	}

	ch, cancel := svc.Engine.State().Subscribe()
	return AppModel{
		svc:         svc,
		router:      router.New(welcome.New(func() screen.Screen { return initial })),
		snapshots:   ch,
		unsubscribe: cancel,
	}
}

func newLogin(svc *services.Services) screen.Screen {
	return login.New(svc, func() screen.Screen { return home.New(svc) })
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Active().Init(),
		services.WaitForSnapshot(m.snapshots),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case services.ProfileUpdatedMsg:
		// Re-arm first so no publish is missed while screens react. Screens
		// under the active one get the update too.
		return m, tea.Batch(
			services.WaitForSnapshot(m.snapshots),
			m.router.Broadcast(msg),
		)

	case services.LoggedOutMsg:
		return m, func() tea.Msg {
			return router.ResetScreenMsg{Screen: newLogin(m.svc)}
		}

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
			break
		}
		switch msg.String() {
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "q":
			if m.router.Depth() == 1 {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

var (
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
	nestedHints = []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
)

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return nestedHints
	}
	return rootHints
}

// headerStats is empty until a profile has been restored or fetched.
func (m AppModel) headerStats() layout.HeaderStats {
	p, ok := m.svc.Engine.State().Profile()
	if !ok {
		return layout.HeaderStats{}
	}
	return layout.HeaderStats{
		Name:   p.DisplayName(),
		XP:     p.TotalXP,
		Streak: p.CurrentStreak,
		League: p.CurrentLeague,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
		return v
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title string
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.headerStats(), m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	return v
}

// Run blocks until the user quits or ctx is cancelled. Cancellation is not
// reported as an error.
func Run(ctx context.Context, svc *services.Services) error {
	m := NewAppModel(ctx, svc)
	defer m.unsubscribe()

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		svc.Log.Error("tui exited", zap.Error(err))
		return err
	}
	return nil
}
