// Package reconcile keeps the locally cached profile in step with the
// backend. Engine is the only writer of the profile; everything else reads
// snapshots from its State.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/profile"
)

// ErrNoIdentity means there is no signed-in user. Callers route to login.
var ErrNoIdentity = errors.New("no signed-in user")

// Backend is the subset of the REST API the engine uses.
type Backend interface {
	GetUser(ctx context.Context, email string) (profile.Remote, error)
	SyncUser(ctx context.Context, p profile.UserProfile) (profile.Remote, error)
	UpdateProgress(ctx context.Context, userID string, pr api.Progress) (profile.Remote, error)
}

// Cache persists the profile record and the one-shot login marker.
type Cache interface {
	Load(ctx context.Context) (*profile.Record, error)
	Save(ctx context.Context, rec profile.Record) error
	Delete(ctx context.Context) error
	MarkRecentLogin(ctx context.Context) error
	ConsumeRecentLogin(ctx context.Context) (bool, error)
}

// Engine merges backend responses into the cached profile.
type Engine struct {
	backend Backend
	cache   Cache
	state   *State
	log     *zap.Logger

	mu      sync.Mutex
	ticket  uint64
	floor   uint64 // responses with tickets at or below floor are dropped
	marks   profile.Watermarks
	pending profile.FieldSet
}

// NewEngine creates an engine with an empty state. Call Restore to load
// the cached profile.
func NewEngine(backend Backend, cache Cache, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		backend: backend,
		cache:   cache,
		state:   NewState(),
		log:     log,
		marks:   profile.Watermarks{},
		pending: profile.FieldSet{},
	}
}

// State returns the profile container.
func (e *Engine) State() *State { return e.state }

// Restore loads the cached profile into the state. It returns
// ErrNoIdentity when nothing usable is cached.
func (e *Engine) Restore(ctx context.Context) (profile.UserProfile, error) {
	rec, err := e.cache.Load(ctx)
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("load cached profile: %w", err)
	}
	if rec == nil || rec.Profile.Email == "" {
		return profile.UserProfile{}, ErrNoIdentity
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = rec.PendingSet()
	if rec.Profile.Mastery == nil {
		rec.Profile.Mastery = map[string]int{}
	}
	e.state.publish(&rec.Profile)
	return rec.Profile.Clone(), nil
}

// Login fetches (or creates) the backend user for email. A non-empty name
// replaces an empty or placeholder backend name and is synced back. On
// success the profile is cached, published, and the next MergeOnLoad is
// skipped.
func (e *Engine) Login(ctx context.Context, email, name string) (profile.UserProfile, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return profile.UserProfile{}, fmt.Errorf("login: email is required")
	}

	remote, err := e.backend.GetUser(ctx, email)
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("login: %w", err)
	}
	p := profile.Merge(profile.New(email), remote, nil)

	pending := profile.FieldSet{}
	if name != "" && (p.Name == "" || p.Name == profile.PlaceholderName) {
		p.Name = name
		synced, err := e.backend.SyncUser(ctx, p)
		if err != nil {
			e.log.Warn("login name sync failed; will retry",
				zap.String("email", email), zap.Error(err))
			pending = profile.NewFieldSet(profile.FieldName)
		} else {
			p = profile.Merge(p, synced, nil)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Everything issued before this login belongs to the previous user.
	e.ticket++
	e.floor = e.ticket
	e.marks = profile.Watermarks{}
	e.pending = pending

	if err := e.persistLocked(ctx, p); err != nil {
		return profile.UserProfile{}, err
	}
	if err := e.cache.MarkRecentLogin(ctx); err != nil {
		e.log.Warn("failed to set recent-login marker", zap.Error(err))
	}
	e.state.publish(&p)
	e.log.Info("logged in", zap.String("email", email), zap.String("id", p.ID))
	return p.Clone(), nil
}

// SkipIfRecentLogin consumes the one-shot marker set by Login and reports
// whether it was set.
func (e *Engine) SkipIfRecentLogin(ctx context.Context) bool {
	set, err := e.cache.ConsumeRecentLogin(ctx)
	if err != nil {
		e.log.Warn("failed to read recent-login marker", zap.Error(err))
		return false
	}
	return set
}

// MergeOnLoad refreshes the cached profile from the backend. It is skipped
// once right after a login. Backend failures keep the cached profile and
// are only logged; the cached profile is returned either way.
func (e *Engine) MergeOnLoad(ctx context.Context) (profile.UserProfile, error) {
	cur, ok := e.state.Profile()
	if !ok || cur.Email == "" {
		return profile.UserProfile{}, ErrNoIdentity
	}
	if e.SkipIfRecentLogin(ctx) {
		e.log.Debug("merge skipped after recent login", zap.String("email", cur.Email))
		return cur, nil
	}

	ticket := e.nextTicket()
	remote, err := e.backend.GetUser(ctx, cur.Email)
	if err != nil {
		e.log.Warn("load merge failed; keeping cached profile",
			zap.String("email", cur.Email), zap.Error(err))
		return cur, nil
	}

	e.mu.Lock()
	latest, ok := e.state.Profile()
	if !ok || ticket <= e.floor || latest.Email != cur.Email {
		e.mu.Unlock()
		return latest, nil
	}
	merged := profile.MergeAt(latest, remote, ticket, e.marks, e.pending)
	if err := e.persistLocked(ctx, merged); err != nil {
		e.mu.Unlock()
		return latest, err
	}
	e.state.publish(&merged)
	resync := len(e.pending) > 0 && merged.ID != ""
	e.mu.Unlock()

	if resync {
		e.syncPending(ctx)
	}
	p, _ := e.state.Profile()
	return p, nil
}

// ReportProgress sends one answer to the backend and overlays the result.
// It does nothing for a user without a backend ID. Errors are logged and
// returned for callers that want them; sessions ignore them.
func (e *Engine) ReportProgress(ctx context.Context, pr api.Progress) error {
	cur, ok := e.state.Profile()
	if !ok || cur.ID == "" {
		return nil
	}
	ticket := e.nextTicket()
	remote, err := e.backend.UpdateProgress(ctx, cur.ID, pr)
	if err != nil {
		e.log.Warn("progress update failed",
			zap.String("topic", pr.Topic), zap.Bool("correct", pr.Correct), zap.Error(err))
		return err
	}
	_, err = e.ApplyProgressResult(ctx, ticket, remote)
	return err
}

// ApplyProgressResult overlays a backend response issued with ticket onto
// the current profile. XP, streaks and rank are never computed locally.
func (e *Engine) ApplyProgressResult(ctx context.Context, ticket uint64, remote profile.Remote) (profile.UserProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, ok := e.state.Profile()
	if !ok || ticket <= e.floor {
		return cur, nil
	}
	out := profile.Overlay(cur, remote, ticket, e.marks, e.pending)
	if err := e.persistLocked(ctx, out); err != nil {
		return cur, err
	}
	e.state.publish(&out)
	return out.Clone(), nil
}

// ApplyProfileEdit applies a validated edit locally, marks its fields
// pending and syncs. A failed sync leaves the edit cached and pending; it
// is logged, not returned.
func (e *Engine) ApplyProfileEdit(ctx context.Context, edit profile.Edit) (profile.UserProfile, error) {
	if err := edit.Validate(); err != nil {
		return profile.UserProfile{}, err
	}
	if edit.Empty() {
		p, ok := e.state.Profile()
		if !ok {
			return profile.UserProfile{}, ErrNoIdentity
		}
		return p, nil
	}

	e.mu.Lock()
	cur, ok := e.state.Profile()
	if !ok {
		e.mu.Unlock()
		return profile.UserProfile{}, ErrNoIdentity
	}
	updated := edit.Apply(cur)
	e.pending = e.pending.Union(edit.Fields())
	if err := e.persistLocked(ctx, updated); err != nil {
		e.mu.Unlock()
		return cur, err
	}
	e.state.publish(&updated)
	e.mu.Unlock()

	e.syncPending(ctx)
	p, _ := e.state.Profile()
	return p, nil
}

// Pending returns the fields edited locally and not yet acknowledged.
func (e *Engine) Pending() []profile.Field {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Sorted()
}

// Logout forgets the user: the cache entry, the marker and the state.
func (e *Engine) Logout(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ticket++
	e.floor = e.ticket
	e.marks = profile.Watermarks{}
	e.pending = profile.FieldSet{}
	e.state.publish(nil)

	if err := e.cache.Delete(ctx); err != nil {
		return fmt.Errorf("clear cached profile: %w", err)
	}
	e.log.Info("logged out")
	return nil
}

// syncPending upserts the profile so the backend learns about pending
// edits. Fields whose value did not change while the request was in flight
// stop being pending once the backend acknowledges them.
func (e *Engine) syncPending(ctx context.Context) {
	e.mu.Lock()
	sent, ok := e.state.Profile()
	if !ok {
		e.mu.Unlock()
		return
	}
	e.ticket++
	ticket := e.ticket
	inFlight := e.pending.Sorted()
	e.mu.Unlock()

	remote, err := e.backend.SyncUser(ctx, sent)
	if err != nil {
		e.log.Warn("profile sync failed; edit kept locally",
			zap.String("email", sent.Email),
			zap.Any("pending", inFlight),
			zap.Error(err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	cur, ok := e.state.Profile()
	if !ok || ticket <= e.floor || cur.Email != sent.Email {
		return
	}
	for _, f := range inFlight {
		if sameField(cur, sent, f) {
			delete(e.pending, f)
		}
	}
	out := profile.Overlay(cur, remote, ticket, e.marks, e.pending)
	if err := e.persistLocked(ctx, out); err != nil {
		e.log.Warn("failed to cache synced profile", zap.Error(err))
		return
	}
	e.state.publish(&out)
}

func (e *Engine) nextTicket() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticket++
	return e.ticket
}

func (e *Engine) persistLocked(ctx context.Context, p profile.UserProfile) error {
	rec := profile.Record{Profile: p, Pending: e.pending.Sorted()}
	if err := e.cache.Save(ctx, rec); err != nil {
		return fmt.Errorf("cache profile: %w", err)
	}
	return nil
}

func sameField(a, b profile.UserProfile, f profile.Field) bool {
	switch f {
	case profile.FieldName:
		return a.Name == b.Name
	case profile.FieldPosition:
		return a.Position == b.Position
	case profile.FieldEmail:
		return a.Email == b.Email
	case profile.FieldPhone:
		return a.Phone == b.Phone
	case profile.FieldProfilePic:
		return a.ProfilePic == b.ProfilePic
	}
	return false
}
