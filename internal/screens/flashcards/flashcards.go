package flashcards

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/flashcard"
	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

// topicChosenMsg is sent by the topic picker.
type topicChosenMsg struct {
	Topic string
}

// cardLoadedMsg carries the result of one card fetch.
type cardLoadedMsg struct {
	Req  flashcard.FetchRequest
	Card api.Card
	Err  error
}

// autoAdvanceMsg fires a short while after a self-rating.
type autoAdvanceMsg struct {
	Generation int
	CardID     string
}

// FlashcardsScreen lets the user pick a topic and then drills cards.
type FlashcardsScreen struct {
	svc     *services.Services
	picker  components.Menu
	session *flashcard.Session
	options components.OptionList
	spinner spinner.Model
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)
var _ screen.Closer = (*FlashcardsScreen)(nil)

// New creates a FlashcardsScreen showing the topic picker.
func New(svc *services.Services) *FlashcardsScreen {
	items := make([]components.MenuItem, 0, len(quiz.Topics))
	for _, t := range quiz.Topics {
		topic := t
		items = append(items, components.MenuItem{Label: topic, Action: func() tea.Cmd {
			return func() tea.Msg { return topicChosenMsg{Topic: topic} }
		}})
	}
	return &FlashcardsScreen{
		svc:     svc,
		picker:  components.NewMenu(items),
		spinner: components.NewSpinner(),
	}
}

func (s *FlashcardsScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardsScreen) Title() string {
	if s.session != nil {
		return "Flashcards · " + s.session.Topic()
	}
	return "Flashcards"
}

// Close invalidates fetches and auto-advance timers still in flight.
func (s *FlashcardsScreen) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

func (s *FlashcardsScreen) KeyHints() []layout.KeyHint {
	if s.session == nil {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Topic"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	card, ok := s.session.Card()
	hints := []layout.KeyHint{}
	switch {
	case !ok && s.session.Err() != "":
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Retry"})
	case !ok:
	case s.session.Answered():
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next card"})
	case card.HasOptions():
		hints = append(hints, layout.KeyHint{Key: "A-D", Description: "Answer"})
	case s.session.Phase() == flashcard.PhaseShowingAnswer:
		hints = append(hints,
			layout.KeyHint{Key: "y", Description: "Knew it"},
			layout.KeyHint{Key: "n", Description: "Didn't"},
			layout.KeyHint{Key: "Space", Description: "Flip"})
	default:
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Flip"})
	}
	return append(hints,
		layout.KeyHint{Key: "t", Description: "Topic"},
		layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicChosenMsg:
		if s.session != nil {
			return s, s.fetch(s.session.SetTopic(msg.Topic))
		}
		s.session = flashcard.New(msg.Topic)
		return s, tea.Batch(s.spinner.Tick, s.fetch(s.session.Start()))

	case cardLoadedMsg:
		return s.handleCard(msg)

	case autoAdvanceMsg:
		if s.session == nil {
			return s, nil
		}
		if req, ok := s.session.AutoAdvance(msg.Generation, msg.CardID); ok {
			return s, s.fetch(req)
		}
		return s, nil

	case spinner.TickMsg:
		if s.session == nil || !s.session.Loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.session == nil {
			var cmd tea.Cmd
			s.picker, cmd = s.picker.Update(msg)
			return s, cmd
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *FlashcardsScreen) handleCard(msg cardLoadedMsg) (screen.Screen, tea.Cmd) {
	if s.session == nil || !s.session.CardLoaded(msg.Req, msg.Card, msg.Err) {
		s.svc.Log.Debug("dropped stale flashcard",
			zap.String("session", msg.Req.SessionID), zap.Int("generation", msg.Req.Generation))
		return s, nil
	}
	if msg.Err != nil {
		s.svc.Log.Warn("flashcard fetch failed",
			zap.String("topic", msg.Req.Topic), zap.Error(msg.Err))
		return s, nil
	}
	s.options = components.NewOptionList(msg.Card.Options)
	return s, nil
}

func (s *FlashcardsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	sess := s.session

	if key == "t" {
		sess.Close()
		s.session = nil
		return s, nil
	}

	card, ok := sess.Card()
	if !ok || sess.Loading() {
		if key == "r" {
			if req, ok := sess.Retry(); ok {
				return s, tea.Batch(s.spinner.Tick, s.fetch(req))
			}
		}
		return s, nil
	}

	if sess.Answered() {
		if key == "enter" || key == "right" || key == "l" {
			return s.next()
		}
		return s, nil
	}

	if card.HasOptions() {
		var chosen int
		s.options, chosen = s.options.Update(msg)
		if chosen < 0 {
			return s, nil
		}
		if pr, ok := sess.SelectIndex(chosen); ok {
			return s, s.svc.ReportProgress(pr)
		}
		return s, nil
	}

	switch key {
	case "space", "f", "enter":
		sess.Flip()
	case "y", "n":
		if sess.Phase() != flashcard.PhaseShowingAnswer {
			return s, nil
		}
		if pr, ok := sess.Rate(key == "y"); ok {
			return s, tea.Batch(s.svc.ReportProgress(pr), autoAdvance(sess.Generation(), card.ID))
		}
	}
	return s, nil
}

func (s *FlashcardsScreen) next() (screen.Screen, tea.Cmd) {
	req, ok := s.session.Next()
	if !ok {
		return s, nil
	}
	return s, tea.Batch(s.spinner.Tick, s.fetch(req))
}

func (s *FlashcardsScreen) fetch(req flashcard.FetchRequest) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := svc.Context()
		defer cancel()
		card, err := svc.Cards.RandomCard(ctx, req.Topic, req.ExcludeIDs)
		return cardLoadedMsg{Req: req, Card: card, Err: err}
	}
}

func autoAdvance(generation int, cardID string) tea.Cmd {
	return tea.Tick(flashcard.AutoAdvanceDelay, func(time.Time) tea.Msg {
		return autoAdvanceMsg{Generation: generation, CardID: cardID}
	})
}
