// Package servicestest builds a Services value backed by in-memory fakes
// for screen and app tests.
package servicestest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/quizgen"
	"github.com/devndesk/DevReady/internal/reconcile"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/store"
)

// Backend is a fake REST backend. One user per email; a correct answer
// grants 10 XP and puts the user in a league group.
type Backend struct {
	mu       sync.Mutex
	users    map[string]profile.UserProfile
	nextID   int
	GetErr   error
	CardErr  error
	BoardErr error
	Cards    []api.Card
	Board    map[string][]profile.Remote
	Progress []api.Progress
	cardReqs []string
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		users: map[string]profile.UserProfile{},
		Board: map[string][]profile.Remote{},
	}
}

func (b *Backend) ensure(email string) profile.UserProfile {
	u, ok := b.users[email]
	if !ok {
		b.nextID++
		u = profile.New(email)
		u.ID = fmt.Sprintf("u-%d", b.nextID)
		u.Name = profile.PlaceholderName
		b.users[email] = u
	}
	return u
}

// Put stores a user as the backend's copy.
func (b *Backend) Put(u profile.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.Email] = u
}

func (b *Backend) GetUser(_ context.Context, email string) (profile.Remote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return profile.Remote{}, b.GetErr
	}
	return profile.RemoteFrom(b.ensure(email)), nil
}

func (b *Backend) SyncUser(_ context.Context, p profile.UserProfile) (profile.Remote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.ensure(p.Email)
	u.Name, u.Position, u.Phone, u.ProfilePic = p.Name, p.Position, p.Phone, p.ProfilePic
	b.users[p.Email] = u
	return profile.RemoteFrom(u), nil
}

func (b *Backend) UpdateProgress(_ context.Context, userID string, pr api.Progress) (profile.Remote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Progress = append(b.Progress, pr)
	for email, u := range b.users {
		if u.ID != userID {
			continue
		}
		u.QuestionsSolved++
		if pr.Correct {
			u.TotalXP += 10
			u.WeeklyXP += 10
		}
		if u.LeagueGroupID == "" {
			u.LeagueGroupID = "BRONZE_test0001"
		}
		b.users[email] = u
		return profile.RemoteFrom(u), nil
	}
	return profile.Remote{}, errors.New("unknown user")
}

// RandomCard pops the next queued card.
func (b *Backend) RandomCard(_ context.Context, topic string, _ []string) (api.Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cardReqs = append(b.cardReqs, topic)
	if b.CardErr != nil {
		return api.Card{}, b.CardErr
	}
	if len(b.Cards) == 0 {
		return api.Card{}, api.ErrNotFound
	}
	c := b.Cards[0]
	b.Cards = b.Cards[1:]
	return c, nil
}

func (b *Backend) Leaderboard(_ context.Context, groupID string) ([]profile.Remote, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.BoardErr != nil {
		return nil, b.BoardErr
	}
	return b.Board[groupID], nil
}

// ProgressReports returns a copy of every progress report received.
func (b *Backend) ProgressReports() []api.Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Progress(nil), b.Progress...)
}

// CardRequests returns the topics RandomCard was called with.
func (b *Backend) CardRequests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.cardReqs...)
}

// Generator returns fixed questions, or Err.
type Generator struct {
	Questions []quizgen.Question
	Err       error
	Calls     int
}

func (g *Generator) Generate(_ context.Context, in quizgen.Input) ([]quizgen.Question, error) {
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	if in.Count < len(g.Questions) {
		return g.Questions[:in.Count], nil
	}
	return g.Questions, nil
}

// Env is a Services value wired to fakes.
type Env struct {
	Svc     *services.Services
	Backend *Backend
	Store   *store.Store
}

// New opens a private in-memory store and returns services backed by it.
func New(t *testing.T) *Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	backend := NewBackend()
	log := zap.NewNop()
	return &Env{
		Svc: &services.Services{
			Engine:            reconcile.NewEngine(backend, s.ProfileCache(), log),
			Cards:             backend,
			Log:               log,
			RefreshInterval:   time.Minute,
			CountdownInterval: time.Second,
			RequestTimeout:    5 * time.Second,
		},
		Backend: backend,
		Store:   s,
	}
}

// SignIn logs a user in through the engine.
func (e *Env) SignIn(t *testing.T, email, name string) profile.UserProfile {
	t.Helper()
	p, err := e.Svc.Engine.Login(context.Background(), email, name)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return p
}
