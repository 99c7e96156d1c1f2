package reconcile

import (
	"sync"
	"sync/atomic"

	"github.com/devndesk/DevReady/internal/profile"
)

// Snapshot is an immutable view of the profile slot. Profile is nil when
// nobody is signed in.
type Snapshot struct {
	Profile *profile.UserProfile
	Version uint64
}

// State holds the current profile. Readers never block and always see a
// whole snapshot; only the Engine writes.
type State struct {
	cur atomic.Pointer[Snapshot]

	mu     sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewState returns an empty state.
func NewState() *State {
	s := &State{subs: make(map[int]chan Snapshot)}
	s.cur.Store(&Snapshot{})
	return s
}

// Current returns the latest snapshot.
func (s *State) Current() Snapshot {
	return *s.cur.Load()
}

// Profile returns a copy of the current profile.
func (s *State) Profile() (profile.UserProfile, bool) {
	snap := s.cur.Load()
	if snap.Profile == nil {
		return profile.UserProfile{}, false
	}
	return snap.Profile.Clone(), true
}

// Subscribe returns a channel that receives the latest snapshot after each
// change. Slow readers only see the most recent one. Call cancel to stop.
func (s *State) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *State) publish(p *profile.UserProfile) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored *profile.UserProfile
	if p != nil {
		c := p.Clone()
		stored = &c
	}
	snap := Snapshot{Profile: stored, Version: s.cur.Load().Version + 1}
	s.cur.Store(&snap)

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	return snap
}
