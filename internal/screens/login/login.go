package login

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/screens/welcome"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldName
)

// loginDoneMsg carries the outcome of a sign-in attempt.
type loginDoneMsg struct {
	Err error
}

// LoginScreen asks for an email and an optional display name.
type LoginScreen struct {
	svc         *services.Services
	homeFactory func() screen.Screen
	form        components.FocusGroup
	spinner     spinner.Model
	submitting  bool
	errMsg      string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)
var _ screen.InputCapturer = (*LoginScreen)(nil)

// New creates a LoginScreen that replaces the stack with the screen
// produced by homeFactory once signed in.
func New(svc *services.Services, homeFactory func() screen.Screen) *LoginScreen {
	form, _ := components.NewFocusGroup(
		components.NewField("Email", "you@example.com", 254),
		components.NewField("Name (optional)", "How should we call you?", 80),
	)
	return &LoginScreen{
		svc:         svc,
		homeFactory: homeFactory,
		form:        form,
		spinner:     components.NewSpinner(),
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.form.Fields[fieldEmail].Focus()
}

func (l *LoginScreen) Title() string {
	return "Sign in"
}

func (l *LoginScreen) CapturingInput() bool {
	return !l.submitting
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	if l.submitting {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		l.submitting = false
		if msg.Err != nil {
			l.errMsg = loginErrorMessage(msg.Err)
			return l, l.form.Fields[l.form.Index].Focus()
		}
		home := l.homeFactory()
		return l, func() tea.Msg { return router.ResetScreenMsg{Screen: home} }

	case spinner.TickMsg:
		if !l.submitting {
			return l, nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd

	case tea.KeyPressMsg:
		if l.submitting {
			return l, nil
		}
		switch msg.String() {
		case "tab", "down":
			return l, l.form.Next()
		case "shift+tab", "up":
			return l, l.form.Prev()
		case "enter":
			if !l.form.Last() {
				return l, l.form.Next()
			}
			return l.submit()
		}
	}

	if l.submitting {
		return l, nil
	}
	var cmd tea.Cmd
	l.form, cmd = l.form.Update(msg)
	return l, cmd
}

func (l *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(l.form.Fields[fieldEmail].Value())
	name := strings.TrimSpace(l.form.Fields[fieldName].Value())

	if email == "" {
		l.form.Fields[fieldEmail].Err = "Email is required"
		return l, l.focus(fieldEmail)
	}
	if err := (profile.Edit{Email: &email}).Validate(); err != nil {
		l.form.Fields[fieldEmail].Err = "Enter a valid email address"
		return l, l.focus(fieldEmail)
	}

	l.submitting = true
	l.errMsg = ""
	l.form.Fields[l.form.Index].Blur()

	svc := l.svc
	return l, tea.Batch(l.spinner.Tick, func() tea.Msg {
		ctx, cancel := svc.Context()
		defer cancel()
		_, err := svc.Engine.Login(ctx, email, name)
		if err != nil {
			svc.Log.Warn("login failed", zap.String("email", email), zap.Error(err))
		}
		return loginDoneMsg{Err: err}
	})
}

func (l *LoginScreen) focus(i int) tea.Cmd {
	l.form.Fields[l.form.Index].Blur()
	l.form.Index = i
	return l.form.Fields[i].Focus()
}

func loginErrorMessage(err error) string {
	var unavailable *api.ErrUnavailable
	switch {
	case errors.As(err, &unavailable):
		return "Can't reach the DevReady server. Check your connection and press Enter to retry."
	case api.IsTransient(err):
		return "The server is busy. Press Enter to retry."
	default:
		return "Sign in failed: " + err.Error()
	}
}

func (l *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	var sections []string
	sections = append(sections, welcome.RenderBanner(width))
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Level up for your next technical interview"))

	body := l.form.View()
	if l.submitting {
		body += "\n\n" + l.spinner.View() + " " + theme.Hint.Render("Signing in...")
	}
	sections = append(sections, components.Panel(body, cw))

	if l.errMsg != "" {
		sections = append(sections, components.ErrorBox(l.errMsg, "", cw))
	}

	return components.Centered(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}
