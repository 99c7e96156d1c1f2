package login

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services/servicestest"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newLogin(t *testing.T) (*LoginScreen, *servicestest.Env) {
	t.Helper()
	env := servicestest.New(t)
	return New(env.Svc, func() screen.Screen { return &stubScreen{} }), env
}

func enter(l *LoginScreen) tea.Cmd {
	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

// findDone runs the submit batch and returns the login outcome.
func findDone(t *testing.T, cmd tea.Cmd) loginDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		batch = tea.BatchMsg{func() tea.Msg { return msg }}
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(loginDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no loginDoneMsg produced")
	return loginDoneMsg{}
}

func TestEnterMovesToNameThenSubmits(t *testing.T) {
	l, env := newLogin(t)
	l.form.Fields[fieldEmail].SetValue("dev@example.com")

	enter(l)
	require.Equal(t, fieldName, l.form.Index)
	assert.False(t, l.submitting)

	l.form.Fields[fieldName].SetValue("Ada")
	cmd := enter(l)
	assert.True(t, l.submitting)
	assert.False(t, l.CapturingInput(), "app keys work while signing in")

	done := findDone(t, cmd)
	require.NoError(t, done.Err)

	p := env.Svc.Profile()
	assert.Equal(t, "dev@example.com", p.Email)
	assert.Equal(t, "Ada", p.Name)

	_, next := l.Update(done)
	require.NotNil(t, next)
	reset, ok := next().(router.ResetScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Home", reset.Screen.Title())
}

func TestEmptyEmailRejected(t *testing.T) {
	l, _ := newLogin(t)
	l.form.Index = fieldName
	l.form.Fields[fieldEmail].Blur()

	enter(l)
	assert.False(t, l.submitting)
	assert.Equal(t, "Email is required", l.form.Fields[fieldEmail].Err)
	assert.Equal(t, fieldEmail, l.form.Index, "focus returns to the email field")
}

func TestInvalidEmailRejected(t *testing.T) {
	l, env := newLogin(t)
	l.form.Fields[fieldEmail].SetValue("not-an-email")
	enter(l)
	enter(l)

	assert.False(t, l.submitting)
	assert.Equal(t, "Enter a valid email address", l.form.Fields[fieldEmail].Err)
	assert.Contains(t, l.View(100, 40), "Enter a valid email address")
	_, signedIn := env.Svc.Engine.State().Profile()
	assert.False(t, signedIn)
}

func TestKeysIgnoredWhileSubmitting(t *testing.T) {
	l, _ := newLogin(t)
	l.submitting = true

	_, cmd := l.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Nil(t, cmd)
	assert.Empty(t, l.form.Fields[fieldEmail].Value())
}

func TestBackendFailureShowsMessage(t *testing.T) {
	l, env := newLogin(t)
	env.Backend.GetErr = &api.ErrUnavailable{Op: "get user", Err: errors.New("connection refused")}
	l.form.Fields[fieldEmail].SetValue("dev@example.com")
	enter(l)

	done := findDone(t, enter(l))
	require.Error(t, done.Err)

	_, cmd := l.Update(done)
	assert.False(t, l.submitting)
	assert.NotNil(t, cmd, "focus is restored")
	assert.Contains(t, l.errMsg, "Can't reach the DevReady server")
}

func TestLoginErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unavailable", &api.ErrUnavailable{Op: "get", Err: errors.New("dial")}, "Can't reach the DevReady server"},
		{"busy", &api.StatusError{Op: "get", Code: 503}, "The server is busy"},
		{"other", errors.New("boom"), "Sign in failed: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, loginErrorMessage(tt.err), tt.want)
		})
	}
}
