package leaderboard

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/reconcile"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/services/servicestest"
)

const group = "BRONZE_test0001"

func member(email, name string, weeklyXP int) profile.Remote {
	return profile.Remote{Email: &email, Name: &name, WeeklyXP: &weeklyXP}
}

func snapshotOf(p profile.UserProfile) reconcile.Snapshot {
	return reconcile.Snapshot{Profile: &p, Version: 1}
}

// joinedEnv signs a user in and places them in a group by answering once.
func joinedEnv(t *testing.T) *servicestest.Env {
	t.Helper()
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	require.NoError(t, env.Svc.Engine.ReportProgress(context.Background(),
		api.Progress{Topic: "DSA", Correct: true, Difficulty: "Hard"}))
	require.Equal(t, group, env.Svc.Profile().LeagueGroupID)
	env.Backend.Board[group] = []profile.Remote{
		member("a@example.com", "Alan", 120),
		member("dev@example.com", "Ada", 10),
		member("b@example.com", "Barbara", 300),
		member("c@example.com", "Claude", 50),
	}
	return env
}

func TestNotJoinedShowsInvite(t *testing.T) {
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	s := New(env.Svc)

	view := s.View(100, 30)
	assert.Contains(t, view, "You're not in a league yet.")
	assert.Contains(t, view, "Resets in")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.Nil(t, cmd, "refresh needs a group")

	_, cmd = s.Update(refreshTickMsg{ViewID: s.id})
	assert.NotNil(t, cmd, "refresh timer keeps running while waiting for a group")
}

func TestFetchRendersStandings(t *testing.T) {
	env := joinedEnv(t)
	s := New(env.Svc)
	require.True(t, s.view.Joined())

	assert.Contains(t, s.View(100, 30), "Loading standings")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	s.Update(cmd())

	require.True(t, s.view.Loaded())
	entries := s.view.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "Barbara", entries[0].Name)
	assert.Equal(t, 3, s.view.Position())

	view := s.View(100, 30)
	assert.Contains(t, view, "Ada (you)")
	assert.Contains(t, view, "Top 3 are promoted")
}

func TestFailedRefreshKeepsStandings(t *testing.T) {
	env := joinedEnv(t)
	s := New(env.Svc)
	s.Update(s.fetch()())
	require.True(t, s.view.Loaded())

	env.Backend.BoardErr = errors.New("503")
	s.Update(s.fetch()())

	assert.Len(t, s.view.Entries(), 4)
	assert.Contains(t, s.View(100, 30), "refresh failed")
}

func TestFirstFetchErrorShowsRetry(t *testing.T) {
	env := joinedEnv(t)
	env.Backend.BoardErr = errors.New("503")
	s := New(env.Svc)
	s.Update(s.fetch()())

	assert.Contains(t, s.View(100, 30), "Couldn't load the leaderboard.")
}

func TestStandingsForOtherViewIgnored(t *testing.T) {
	env := joinedEnv(t)
	s := New(env.Svc)

	s.Update(standingsMsg{ViewID: "other", GroupID: group, Members: []profile.Remote{member("x@example.com", "X", 1)}})
	assert.False(t, s.view.Loaded())

	s.Update(standingsMsg{ViewID: s.id, GroupID: "SILVER_zz", Members: []profile.Remote{member("x@example.com", "X", 1)}})
	assert.False(t, s.view.Loaded(), "result for a previous group is ignored")
}

func TestTicksStopAfterClose(t *testing.T) {
	env := joinedEnv(t)
	s := New(env.Svc)

	_, cmd := s.Update(countdownTickMsg{ViewID: s.id})
	assert.NotNil(t, cmd)
	_, cmd = s.Update(refreshTickMsg{ViewID: s.id})
	assert.NotNil(t, cmd)

	s.Close()
	_, cmd = s.Update(countdownTickMsg{ViewID: s.id})
	assert.Nil(t, cmd)
	_, cmd = s.Update(refreshTickMsg{ViewID: s.id})
	assert.Nil(t, cmd)
}

func TestTicksForOtherViewNotRescheduled(t *testing.T) {
	env := joinedEnv(t)
	s := New(env.Svc)

	_, cmd := s.Update(refreshTickMsg{ViewID: "stale"})
	assert.Nil(t, cmd)
	_, cmd = s.Update(countdownTickMsg{ViewID: "stale"})
	assert.Nil(t, cmd)
}

func TestProfileUpdateRebindsOnJoin(t *testing.T) {
	env := servicestest.New(t)
	p := env.SignIn(t, "dev@example.com", "Ada")
	s := New(env.Svc)
	require.False(t, s.view.Joined())

	p.LeagueGroupID = group
	p.CurrentLeague = profile.LeagueSilver
	_, cmd := s.Update(services.ProfileUpdatedMsg{})
	assert.Nil(t, cmd, "signed-out snapshot is ignored")

	_, cmd = s.Update(services.ProfileUpdatedMsg{Snapshot: snapshotOf(p)})
	require.NotNil(t, cmd)
	assert.True(t, s.view.Joined())
	assert.Equal(t, profile.LeagueSilver, s.league)

	_, cmd = s.Update(services.ProfileUpdatedMsg{Snapshot: snapshotOf(p)})
	assert.Nil(t, cmd, "same group does not refetch")
}
