package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screens/welcome"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/services/servicestest"
)

func newModel(t *testing.T, env *servicestest.Env) AppModel {
	t.Helper()
	m := NewAppModel(context.Background(), env.Svc)
	t.Cleanup(m.unsubscribe)
	return m
}

// step applies msg and, when the result is a router message, applies that too.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.ResetScreenMsg:
		next, _ = m.Update(out)
		m = next.(AppModel)
	}
	return m
}

// skipSplash dismisses the welcome screen.
func skipSplash(t *testing.T, m AppModel) AppModel {
	t.Helper()
	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	require.True(t, ok, "app starts on the splash")
	return step(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
}

func TestStartsOnLoginWithoutIdentity(t *testing.T) {
	env := servicestest.New(t)
	m := skipSplash(t, newModel(t, env))

	assert.Equal(t, "Sign in", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())
}

func TestStartsOnDashboardWhenCached(t *testing.T) {
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")

	m := skipSplash(t, newModel(t, env))
	assert.Equal(t, "Dashboard", m.router.Active().Title())
}

func TestLoginCapturesGlobalKeys(t *testing.T) {
	env := servicestest.New(t)
	m := skipSplash(t, newModel(t, env))

	next, _ := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	m = next.(AppModel)
	assert.Equal(t, "Sign in", m.router.Active().Title(), "q is typed, not quit")
}

func TestEscPopsPushedScreen(t *testing.T) {
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	m := skipSplash(t, newModel(t, env))

	m = step(t, m, tea.KeyPressMsg{Code: '4', Text: "4"})
	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Profile", m.router.Active().Title())

	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Dashboard", m.router.Active().Title())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "esc on the root screen does nothing")
}

func TestLoggedOutResetsToLogin(t *testing.T) {
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	m := skipSplash(t, newModel(t, env))
	m = step(t, m, tea.KeyPressMsg{Code: '2', Text: "2"})
	require.Equal(t, 2, m.router.Depth())

	m = step(t, m, services.LoggedOutMsg{})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Sign in", m.router.Active().Title())
}

func TestProfileUpdateRearmsSubscription(t *testing.T) {
	env := servicestest.New(t)
	m := newModel(t, env)

	_, cmd := m.Update(services.ProfileUpdatedMsg{})
	require.NotNil(t, cmd)

	env.SignIn(t, "dev@example.com", "Ada")
	msg := services.WaitForSnapshot(m.snapshots)()
	update, ok := msg.(services.ProfileUpdatedMsg)
	require.True(t, ok)
	require.NotNil(t, update.Snapshot.Profile)
	assert.Equal(t, "dev@example.com", update.Snapshot.Profile.Email)
}

func TestViewUsesAltScreen(t *testing.T) {
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	m := skipSplash(t, newModel(t, env))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(AppModel)
	assert.True(t, m.View().AltScreen)
	assert.Contains(t, m.router.View(100, 30), "Ada")
}
