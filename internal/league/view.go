// Package league holds the weekly leaderboard view and the countdown to
// the Monday reset.
package league

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/profile"
)

// PromotionZone is how many top entries are promoted at the weekly reset.
const PromotionZone = 3

// Entry is one member of a league group.
type Entry struct {
	ID       string
	Email    string
	Name     string
	Rank     profile.Rank
	WeeklyXP int
}

// Fetcher loads the members of a league group.
type Fetcher interface {
	Leaderboard(ctx context.Context, leagueGroupID string) ([]profile.Remote, error)
}

// View is the leaderboard for one user's league group.
type View struct {
	fetcher Fetcher
	log     *zap.Logger

	groupID string
	email   string
	entries []Entry
	loaded  bool
	lastErr error
}

// NewView creates a view for the user's group. An empty groupID means the
// user has not joined a group yet and nothing is ever fetched.
func NewView(fetcher Fetcher, groupID, email string, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{fetcher: fetcher, groupID: groupID, email: email, log: log}
}

// Joined reports whether the user belongs to a league group.
func (v *View) Joined() bool { return v.groupID != "" }

// GroupID returns the league group shown.
func (v *View) GroupID() string { return v.groupID }

// Loaded reports whether at least one fetch succeeded.
func (v *View) Loaded() bool { return v.loaded }

// LastErr returns the error of the most recent fetch, if it failed.
func (v *View) LastErr() error { return v.lastErr }

// Entries returns the current standings.
func (v *View) Entries() []Entry {
	return append([]Entry(nil), v.entries...)
}

// Fetch loads the standings from the backend.
func (v *View) Fetch(ctx context.Context) ([]profile.Remote, error) {
	if !v.Joined() {
		return nil, nil
	}
	return v.fetcher.Leaderboard(ctx, v.groupID)
}

// Apply replaces the standings with a fetch result. A failed fetch keeps
// the previous standings.
func (v *View) Apply(members []profile.Remote, err error) {
	if err != nil {
		v.lastErr = err
		v.log.Warn("leaderboard refresh failed; keeping last standings",
			zap.String("group", v.groupID), zap.Error(err))
		return
	}
	v.lastErr = nil
	v.loaded = true
	v.entries = Standings(members)
}

// Refresh is Fetch followed by Apply.
func (v *View) Refresh(ctx context.Context) error {
	if !v.Joined() {
		return nil
	}
	members, err := v.Fetch(ctx)
	v.Apply(members, err)
	return err
}

// Position returns the zero-based index of the signed-in user, matched by
// email, or -1.
func (v *View) Position() int {
	for i, e := range v.entries {
		if v.email != "" && strings.EqualFold(e.Email, v.email) {
			return i
		}
	}
	return -1
}

// IsCurrentUser reports whether e is the signed-in user.
func (v *View) IsCurrentUser(e Entry) bool {
	return v.email != "" && strings.EqualFold(e.Email, v.email)
}

// InPromotionZone reports whether position i is in the promotion zone.
func InPromotionZone(i int) bool { return i >= 0 && i < PromotionZone }

// Standings converts backend members to entries ordered by weekly XP,
// highest first. Ties keep the backend order.
func Standings(members []profile.Remote) []Entry {
	out := make([]Entry, 0, len(members))
	for _, m := range members {
		e := Entry{Rank: profile.RankNewbie}
		if m.ID != nil {
			e.ID = *m.ID
		}
		if m.Email != nil {
			e.Email = *m.Email
		}
		if m.Name != nil {
			e.Name = *m.Name
		}
		if m.Rank != nil && *m.Rank != "" {
			e.Rank = profile.Rank(*m.Rank)
		}
		if m.WeeklyXP != nil {
			e.WeeklyXP = *m.WeeklyXP
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeeklyXP > out[j].WeeklyXP })
	return out
}
