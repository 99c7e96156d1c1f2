package home

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/devndesk/DevReady/internal/reconcile"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/screens/cheatsheet"
	"github.com/devndesk/DevReady/internal/screens/flashcards"
	"github.com/devndesk/DevReady/internal/screens/leaderboard"
	profilescreen "github.com/devndesk/DevReady/internal/screens/profile"
	quizscreen "github.com/devndesk/DevReady/internal/screens/quiz"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

// mergeDoneMsg is sent when the load-time merge with the backend finishes.
type mergeDoneMsg struct {
	Err error
}

// HomeScreen is the dashboard shown after sign-in.
type HomeScreen struct {
	svc     *services.Services
	menu    components.Menu
	syncing bool
	syncErr string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *services.Services) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "Quiz", Description: "AI-generated interview questions", Action: push(func() screen.Screen {
			return quizscreen.New(svc)
		})},
		{Label: "Flashcards", Description: "Endless practice cards", Action: push(func() screen.Screen {
			return flashcards.New(svc)
		})},
		{Label: "Leaderboard", Description: "This week's league", Action: push(func() screen.Screen {
			return leaderboard.New(svc)
		})},
		{Label: "Profile", Description: "Badges, details and logout", Action: push(func() screen.Screen {
			return profilescreen.New(svc)
		})},
		{Label: "Cheat sheets", Description: "Quick reference per topic", Action: push(func() screen.Screen {
			return cheatsheet.New(svc)
		})},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		svc:  svc,
		menu: components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	h.syncing = true
	svc := h.svc
	return func() tea.Msg {
		ctx, cancel := svc.Context()
		defer cancel()
		_, err := svc.Engine.MergeOnLoad(ctx)
		return mergeDoneMsg{Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Dashboard"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-6", Description: "Jump"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mergeDoneMsg:
		h.syncing = false
		if errors.Is(msg.Err, reconcile.ErrNoIdentity) {
			return h, func() tea.Msg { return services.LoggedOutMsg{} }
		}
		if msg.Err != nil {
			h.syncErr = "Couldn't save the refreshed profile; showing cached progress."
		}
		return h, nil

	case services.ProfileUpdatedMsg:
		// View reads the state on every render.
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	p := h.svc.Profile()
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var sections []string
	sections = append(sections, renderGreeting(p, h.syncing, cw))
	if !compact {
		sections = append(sections, renderMascot(mascotFor(p), cw))
	}
	sections = append(sections, renderStats(p, cw))
	sections = append(sections, renderMastery(p, cw))
	sections = append(sections, components.Panel(h.menu.View(), cw))
	if h.syncErr != "" {
		sections = append(sections, components.ErrorBox(h.syncErr, "", cw))
	}

	return components.Centered(strings.Join(sections, "\n"), width, height)
}
