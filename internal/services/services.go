// Package services bundles the long-lived dependencies screens are built
// from, plus the app-wide messages they exchange with the root model.
package services

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/quizgen"
	"github.com/devndesk/DevReady/internal/reconcile"
)

// Cards is the part of the backend the card and leaderboard screens read.
type Cards interface {
	RandomCard(ctx context.Context, topic string, excludeIDs []string) (api.Card, error)
	Leaderboard(ctx context.Context, leagueGroupID string) ([]profile.Remote, error)
}

// Services is shared by every screen.
type Services struct {
	Engine    *reconcile.Engine
	Cards     Cards
	Generator quizgen.Generator // nil when no LLM provider is configured
	Log       *zap.Logger

	RefreshInterval   time.Duration
	CountdownInterval time.Duration
	RequestTimeout    time.Duration
}

// ProfileUpdatedMsg is posted whenever the engine publishes a new profile
// snapshot. The root model handles it regardless of the active screen.
type ProfileUpdatedMsg struct {
	Snapshot reconcile.Snapshot
}

// LoggedOutMsg asks the root model to drop every screen and show login.
type LoggedOutMsg struct{}

// Profile returns the current profile, or a zero profile when signed out.
func (s *Services) Profile() profile.UserProfile {
	p, _ := s.Engine.State().Profile()
	return p
}

// Context returns a context bounded by the request timeout.
func (s *Services) Context() (context.Context, context.CancelFunc) {
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ReportProgress sends an answer to the backend without blocking the
// caller. The engine publishes the result, which reaches the root model as
// a ProfileUpdatedMsg.
func (s *Services) ReportProgress(pr api.Progress) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := s.Context()
		defer cancel()
		_ = s.Engine.ReportProgress(ctx, pr)
		return nil
	}
}

// WaitForSnapshot blocks until ch delivers and wraps the snapshot.
func WaitForSnapshot(ch <-chan reconcile.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return ProfileUpdatedMsg{Snapshot: snap}
	}
}
