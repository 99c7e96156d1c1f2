package league

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/profile"
)

func ptr[T any](v T) *T { return &v }

func member(email, name string, xp int) profile.Remote {
	return profile.Remote{Email: ptr(email), Name: ptr(name), WeeklyXP: ptr(xp), Rank: ptr("JUNIOR")}
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	members []profile.Remote
	err     error
}

func (f *fakeFetcher) Leaderboard(_ context.Context, groupID string) ([]profile.Remote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.members, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStandingsOrderIsStable(t *testing.T) {
	got := Standings([]profile.Remote{
		member("a@x.io", "A", 10),
		member("b@x.io", "B", 30),
		member("c@x.io", "C", 10),
		{Email: ptr("d@x.io")},
	})
	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.Email
	}
	assert.Equal(t, []string{"b@x.io", "a@x.io", "c@x.io", "d@x.io"}, names)
	assert.Equal(t, profile.RankNewbie, got[3].Rank)
	assert.Equal(t, profile.RankJunior, got[0].Rank)
}

func TestStandingsTiesKeepBackendOrder(t *testing.T) {
	got := Standings([]profile.Remote{
		member("zed@x.io", "Zed", 20),
		member("amy@x.io", "Amy", 20),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "zed@x.io", got[0].Email)
	assert.Equal(t, "amy@x.io", got[1].Email)
}

func TestViewWithoutGroupNeverFetches(t *testing.T) {
	f := &fakeFetcher{}
	v := NewView(f, "", "me@x.io", nil)
	assert.False(t, v.Joined())
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, 0, f.Calls())
	assert.Empty(t, v.Entries())
}

func TestViewKeepsLastGoodOnFailure(t *testing.T) {
	f := &fakeFetcher{members: []profile.Remote{member("a@x.io", "A", 5), member("me@x.io", "Me", 50)}}
	v := NewView(f, "G1", "ME@x.io", nil)

	require.NoError(t, v.Refresh(context.Background()))
	require.Len(t, v.Entries(), 2)
	assert.Equal(t, 0, v.Position())
	assert.True(t, v.IsCurrentUser(v.Entries()[0]))

	f.err = errors.New("offline")
	assert.Error(t, v.Refresh(context.Background()))
	assert.Len(t, v.Entries(), 2)
	assert.Error(t, v.LastErr())
	assert.True(t, v.Loaded())

	f.err = nil
	f.members = []profile.Remote{member("z@x.io", "Z", 1)}
	require.NoError(t, v.Refresh(context.Background()))
	assert.Len(t, v.Entries(), 1, "each fetch fully replaces the entries")
	assert.Equal(t, -1, v.Position())
	assert.NoError(t, v.LastErr())
}

func TestPromotionZone(t *testing.T) {
	assert.True(t, InPromotionZone(0))
	assert.True(t, InPromotionZone(2))
	assert.False(t, InPromotionZone(3))
	assert.False(t, InPromotionZone(-1))
}

func TestNextReset(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2026, 10, 21, 15, 30, 0, 0, loc), time.Date(2026, 10, 26, 0, 0, 0, 0, loc)},
		{"sunday night", time.Date(2026, 10, 25, 23, 59, 0, 0, loc), time.Date(2026, 10, 26, 0, 0, 0, 0, loc)},
		{"monday midnight exactly", time.Date(2026, 10, 26, 0, 0, 0, 0, loc), time.Date(2026, 11, 2, 0, 0, 0, 0, loc)},
		{"monday morning", time.Date(2026, 10, 26, 9, 0, 0, 0, loc), time.Date(2026, 11, 2, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextReset(tt.now)), "got %v", NextReset(tt.now))
			assert.Greater(t, Remaining(tt.now), time.Duration(0))
		})
	}
}

func TestCountdownFormat(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, "4d 8h 30m", Countdown(time.Date(2026, 10, 21, 15, 30, 0, 0, loc)))
	assert.Equal(t, "7d 0h 0m", Countdown(time.Date(2026, 10, 26, 0, 0, 0, 0, loc)))
	assert.Equal(t, "6d 23h 59m", Countdown(time.Date(2026, 10, 26, 0, 0, 30, 0, loc)))
	assert.Equal(t, "0d 0h 0m", FormatRemaining(-time.Hour))
}

func TestWatch(t *testing.T) {
	f := &fakeFetcher{members: []profile.Remote{member("a@x.io", "A", 5)}}
	v := NewView(f, "G1", "a@x.io", nil)
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var updates []Update
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, v, 10*time.Millisecond, time.Hour, func() time.Time {
			return time.Date(2026, 10, 21, 15, 30, 0, 0, time.UTC)
		}, func(u Update) {
			mu.Lock()
			updates = append(updates, u)
			n := len(updates)
			mu.Unlock()
			if n == 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(updates), 3)
	assert.Equal(t, "4d 8h 30m", updates[0].Countdown)
	assert.Len(t, updates[0].Entries, 1)
	assert.GreaterOrEqual(t, f.Calls(), 3)
}
