package leaderboard

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/devndesk/DevReady/internal/league"
	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

// standingsMsg carries one leaderboard fetch for a view.
type standingsMsg struct {
	ViewID  string
	GroupID string
	Members []profile.Remote
	Err     error
}

// refreshTickMsg and countdownTickMsg drive the periodic timers. Ticks for
// a closed or replaced view are not rescheduled.
type refreshTickMsg struct{ ViewID string }
type countdownTickMsg struct{ ViewID string }

// LeaderboardScreen shows the user's weekly league group.
type LeaderboardScreen struct {
	svc       *services.Services
	id        string
	view      *league.View
	league    profile.League
	countdown string
	spinner   spinner.Model
	closed    bool
	now       func() time.Time
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)
var _ screen.Closer = (*LeaderboardScreen)(nil)

// New creates a LeaderboardScreen for the signed-in user's group.
func New(svc *services.Services) *LeaderboardScreen {
	s := &LeaderboardScreen{
		svc:     svc,
		id:      uuid.NewString(),
		spinner: components.NewSpinner(),
		now:     time.Now,
	}
	s.bind(svc.Profile())
	return s
}

// bind points the screen at p's group.
func (s *LeaderboardScreen) bind(p profile.UserProfile) {
	s.view = league.NewView(s.svc.Cards, p.LeagueGroupID, p.Email, s.svc.Log)
	s.league = p.CurrentLeague
	s.countdown = league.Countdown(s.now())
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.refreshTick(), s.countdownTick()}
	if s.view.Joined() {
		cmds = append(cmds, s.fetch(), s.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

// Close stops the timers.
func (s *LeaderboardScreen) Close() {
	s.closed = true
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if s.view.Joined() {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Refresh"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case standingsMsg:
		if msg.ViewID != s.id || msg.GroupID != s.view.GroupID() {
			return s, nil
		}
		s.view.Apply(msg.Members, msg.Err)
		return s, nil

	case refreshTickMsg:
		if s.closed || msg.ViewID != s.id {
			return s, nil
		}
		if !s.view.Joined() {
			return s, s.refreshTick()
		}
		return s, tea.Batch(s.fetch(), s.refreshTick())

	case countdownTickMsg:
		if s.closed || msg.ViewID != s.id {
			return s, nil
		}
		s.countdown = league.Countdown(s.now())
		return s, s.countdownTick()

	case services.ProfileUpdatedMsg:
		if msg.Snapshot.Profile == nil {
			return s, nil
		}
		p := *msg.Snapshot.Profile
		s.league = p.CurrentLeague
		if p.LeagueGroupID == s.view.GroupID() {
			return s, nil
		}
		// The user was placed in a group since the screen opened.
		s.bind(p)
		if s.view.Joined() {
			return s, tea.Batch(s.fetch(), s.spinner.Tick)
		}
		return s, nil

	case spinner.TickMsg:
		if s.view.Loaded() || !s.view.Joined() || s.view.LastErr() != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if msg.String() == "r" && s.view.Joined() {
			return s, s.fetch()
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) fetch() tea.Cmd {
	view, id, svc := s.view, s.id, s.svc
	return func() tea.Msg {
		ctx, cancel := svc.Context()
		defer cancel()
		members, err := view.Fetch(ctx)
		return standingsMsg{ViewID: id, GroupID: view.GroupID(), Members: members, Err: err}
	}
}

func (s *LeaderboardScreen) refreshTick() tea.Cmd {
	id := s.id
	return tea.Tick(s.interval(s.svc.RefreshInterval, league.RefreshInterval), func(time.Time) tea.Msg {
		return refreshTickMsg{ViewID: id}
	})
}

func (s *LeaderboardScreen) countdownTick() tea.Cmd {
	id := s.id
	return tea.Tick(s.interval(s.svc.CountdownInterval, league.CountdownInterval), func(time.Time) tea.Msg {
		return countdownTickMsg{ViewID: id}
	})
}

func (s *LeaderboardScreen) interval(configured, def time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return def
}
