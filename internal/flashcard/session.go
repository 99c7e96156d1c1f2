// Package flashcard drives a flashcard run: fetch a card the user has not
// seen, let them answer or self-rate it once, then move on.
package flashcard

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/devndesk/DevReady/internal/api"
)

// AutoAdvanceDelay is the pause between rating a card and fetching the next.
const AutoAdvanceDelay = 300 * time.Millisecond

// Phase is the session's display state.
type Phase int

const (
	PhaseLoadingCard Phase = iota
	PhaseShowingQuestion
	PhaseShowingAnswer
)

func (p Phase) String() string {
	switch p {
	case PhaseLoadingCard:
		return "loading"
	case PhaseShowingQuestion:
		return "question"
	case PhaseShowingAnswer:
		return "answer"
	}
	return "unknown"
}

// FetchRequest describes one card fetch. The session ID and generation let
// the session recognize responses that arrive after a restart.
type FetchRequest struct {
	SessionID  string
	Generation int
	Topic      string
	ExcludeIDs []string
}

// Session is one visit to the flashcard screen. It is owned by the UI
// event loop and not safe for concurrent use.
type Session struct {
	id         string
	generation int
	topic      string

	phase     Phase
	prevPhase Phase
	card      *api.Card
	seen      []string

	answered bool
	selected string
	correct  bool
	errMsg   string
}

// New creates a session for topic. Call Start to fetch the first card.
func New(topic string) *Session {
	return &Session{id: uuid.NewString(), topic: topic, phase: PhaseLoadingCard}
}

func (s *Session) ID() string { return s.id }
func (s *Session) Generation() int { return s.generation }
func (s *Session) Topic() string { return s.topic }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Answered() bool { return s.answered }
func (s *Session) Selected() string { return s.selected }
func (s *Session) Correct() bool { return s.correct }
func (s *Session) Err() string { return s.errMsg }
func (s *Session) Seen() []string { return slices.Clone(s.seen) }
func (s *Session) Loading() bool { return s.phase == PhaseLoadingCard }

// Card returns the card on display.
func (s *Session) Card() (api.Card, bool) {
	if s.card == nil {
		return api.Card{}, false
	}
	return *s.card, true
}

// Start resets the seen set and requests the first card.
func (s *Session) Start() FetchRequest {
	s.generation++
	s.seen = nil
	s.card = nil
	s.answered = false
	s.selected = ""
	s.errMsg = ""
	s.prevPhase = PhaseLoadingCard
	s.phase = PhaseLoadingCard
	return s.request()
}

// SetTopic switches topic and starts over.
func (s *Session) SetTopic(topic string) FetchRequest {
	s.topic = topic
	return s.Start()
}

// Close invalidates in-flight fetches.
func (s *Session) Close() {
	s.generation++
}

// Next requests another card. It returns false while a fetch is pending.
func (s *Session) Next() (FetchRequest, bool) {
	if s.phase == PhaseLoadingCard {
		return FetchRequest{}, false
	}
	s.prevPhase = s.phase
	s.phase = PhaseLoadingCard
	return s.request(), true
}

// AutoAdvance is Next, but only if cardID is still the answered card on
// display. It backs the short pause after a rating.
func (s *Session) AutoAdvance(generation int, cardID string) (FetchRequest, bool) {
	if generation != s.generation || s.card == nil || s.card.ID != cardID || !s.answered {
		return FetchRequest{}, false
	}
	return s.Next()
}

// CardLoaded delivers a fetch result. It reports false if the response
// belongs to another session or generation and was discarded. On error
// the previous card stays up.
func (s *Session) CardLoaded(req FetchRequest, card api.Card, err error) bool {
	if req.SessionID != s.id || req.Generation != s.generation || s.phase != PhaseLoadingCard {
		return false
	}
	if err != nil {
		s.errMsg = "Couldn't load a new card."
		if s.card != nil {
			s.phase = s.prevPhase
		}
		return true
	}
	if !slices.Contains(s.seen, card.ID) {
		s.seen = append(s.seen, card.ID)
	}
	c := card
	s.card = &c
	s.answered = false
	s.selected = ""
	s.correct = false
	s.errMsg = ""
	s.phase = PhaseShowingQuestion
	return true
}

// Retry re-issues the fetch after a failure with no card on display.
func (s *Session) Retry() (FetchRequest, bool) {
	if s.card != nil || s.phase != PhaseLoadingCard || s.errMsg == "" {
		return FetchRequest{}, false
	}
	s.errMsg = ""
	return s.request(), true
}

// Flip toggles between the question and answer sides.
func (s *Session) Flip() {
	switch s.phase {
	case PhaseShowingQuestion:
		s.phase = PhaseShowingAnswer
	case PhaseShowingAnswer:
		if !s.answered {
			s.phase = PhaseShowingQuestion
		}
	}
}

// Select answers a multiple-choice card. Only the first answer counts.
func (s *Session) Select(option string) (api.Progress, bool) {
	if s.card == nil || s.phase == PhaseLoadingCard || s.answered || !slices.Contains(s.card.Options, option) {
		return api.Progress{}, false
	}
	s.selected = option
	return s.answer(option == s.card.CorrectAnswer), true
}

// SelectIndex answers with the i-th option.
func (s *Session) SelectIndex(i int) (api.Progress, bool) {
	if s.card == nil || i < 0 || i >= len(s.card.Options) {
		return api.Progress{}, false
	}
	return s.Select(s.card.Options[i])
}

// Rate records a self-assessment for a flip card. Only the first rating
// counts.
func (s *Session) Rate(knewIt bool) (api.Progress, bool) {
	if s.card == nil || s.phase == PhaseLoadingCard || s.answered {
		return api.Progress{}, false
	}
	return s.answer(knewIt), true
}

func (s *Session) answer(correct bool) api.Progress {
	s.answered = true
	s.correct = correct
	s.phase = PhaseShowingAnswer
	return api.Progress{
		Topic:      s.topic,
		Correct:    correct,
		Difficulty: s.card.DifficultyOrDefault(),
	}
}

func (s *Session) request() FetchRequest {
	return FetchRequest{
		SessionID:  s.id,
		Generation: s.generation,
		Topic:      s.topic,
		ExcludeIDs: slices.Clone(s.seen),
	}
}
