package flashcards

import (
	"errors"
	"testing"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/flashcard"
	"github.com/devndesk/DevReady/internal/services/servicestest"
)

func keyMsg(code rune) tea.KeyPressMsg {
	if code > ' ' && code < unicode.MaxRune {
		return tea.KeyPressMsg{Code: code, Text: string(code)}
	}
	return tea.KeyPressMsg{Code: code}
}

func press(s *FlashcardsScreen, code rune) tea.Cmd {
	_, cmd := s.Update(keyMsg(code))
	return cmd
}

// drain runs cmd and any batch it produces, returning the leaf messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findLoaded(t *testing.T, msgs []tea.Msg) cardLoadedMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(cardLoadedMsg); ok {
			return r
		}
	}
	t.Fatalf("no cardLoadedMsg in %v", msgs)
	return cardLoadedMsg{}
}

func mcqCard(id string) api.Card {
	return api.Card{
		ID:            id,
		Category:      "DSA",
		Question:      "Which structure is LIFO?",
		Options:       []string{"Queue", "Stack", "Heap"},
		CorrectAnswer: "Stack",
		Difficulty:    "Medium",
	}
}

func flipCard(id string) api.Card {
	return api.Card{
		ID:            id,
		Category:      "DSA",
		Question:      "What does BFS use?",
		CorrectAnswer: "A queue",
	}
}

func newScreen(t *testing.T, cards ...api.Card) (*FlashcardsScreen, *servicestest.Env) {
	t.Helper()
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	env.Backend.Cards = cards
	return New(env.Svc), env
}

// startTopic picks the menu item with the given digit and loads the first card.
func startTopic(t *testing.T, s *FlashcardsScreen, digit rune) {
	t.Helper()
	msgs := drain(press(s, digit))
	require.Len(t, msgs, 1)
	_, cmd := s.Update(msgs[0])
	require.NotNil(t, s.session)
	s.Update(findLoaded(t, drain(cmd)))
}

func TestPickerStartsSession(t *testing.T) {
	s, env := newScreen(t, mcqCard("c1"))

	assert.Equal(t, "Flashcards", s.Title())
	chosen := drain(press(s, '3'))
	require.Len(t, chosen, 1)
	assert.Equal(t, topicChosenMsg{Topic: "DSA"}, chosen[0])

	_, cmd := s.Update(chosen[0])
	require.NotNil(t, s.session)
	assert.Equal(t, "Flashcards · DSA", s.Title())
	assert.True(t, s.session.Loading())

	s.Update(findLoaded(t, drain(cmd)))
	card, ok := s.session.Card()
	require.True(t, ok)
	assert.Equal(t, "c1", card.ID)
	assert.Equal(t, []string{"DSA"}, env.Backend.CardRequests())
	assert.Contains(t, s.View(100, 30), "Which structure is LIFO?")
}

func TestMultipleChoiceReportsProgress(t *testing.T) {
	s, env := newScreen(t, mcqCard("c1"), mcqCard("c2"))
	startTopic(t, s, '3')

	cmd := press(s, 'b')
	require.NotNil(t, cmd)
	assert.True(t, s.session.Answered())
	assert.True(t, s.session.Correct())
	drain(cmd)

	reports := env.Backend.ProgressReports()
	require.Len(t, reports, 1)
	assert.Equal(t, api.Progress{Topic: "DSA", Correct: true, Difficulty: "Medium"}, reports[0])

	assert.Nil(t, press(s, 'a'), "only the first answer counts")

	next := press(s, tea.KeyEnter)
	require.NotNil(t, next)
	s.Update(findLoaded(t, drain(next)))
	card, _ := s.session.Card()
	assert.Equal(t, "c2", card.ID)
	assert.False(t, s.session.Answered())
}

func TestFlipCardRatingAutoAdvances(t *testing.T) {
	s, env := newScreen(t, flipCard("f1"), flipCard("f2"))
	startTopic(t, s, '3')

	assert.Nil(t, press(s, 'y'), "rating needs the answer side")

	press(s, tea.KeySpace)
	require.Equal(t, flashcard.PhaseShowingAnswer, s.session.Phase())
	assert.Contains(t, s.View(100, 30), "A queue")

	cmd := press(s, 'n')
	require.NotNil(t, cmd)
	assert.True(t, s.session.Answered())
	assert.False(t, s.session.Correct())

	var advance *autoAdvanceMsg
	for _, m := range drain(cmd) {
		if a, ok := m.(autoAdvanceMsg); ok {
			advance = &a
		}
	}
	require.NotNil(t, advance)
	assert.Equal(t, "f1", advance.CardID)

	reports := env.Backend.ProgressReports()
	require.Len(t, reports, 1)
	assert.Equal(t, api.Progress{Topic: "DSA", Correct: false, Difficulty: api.DefaultDifficulty}, reports[0])

	_, next := s.Update(*advance)
	require.NotNil(t, next)
	s.Update(findLoaded(t, drain(next)))
	card, _ := s.session.Card()
	assert.Equal(t, "f2", card.ID)
}

func TestAutoAdvanceIgnoredAfterManualNext(t *testing.T) {
	s, _ := newScreen(t, flipCard("f1"), flipCard("f2"), flipCard("f3"))
	startTopic(t, s, '1')

	press(s, tea.KeySpace)
	press(s, 'y')
	gen := s.session.Generation()

	s.Update(findLoaded(t, drain(press(s, tea.KeyEnter))))
	card, _ := s.session.Card()
	require.Equal(t, "f2", card.ID)

	_, cmd := s.Update(autoAdvanceMsg{Generation: gen, CardID: "f1"})
	assert.Nil(t, cmd, "timer for a card no longer on display is dropped")
}

func TestStaleCardDropped(t *testing.T) {
	s, _ := newScreen(t, mcqCard("c1"), mcqCard("c2"))
	startTopic(t, s, '3')
	press(s, 'b')

	stale := findLoaded(t, drain(press(s, tea.KeyEnter)))
	require.Equal(t, "c2", stale.Card.ID)

	// Switching topic starts a new generation.
	press(s, 't')
	assert.Nil(t, s.session)
	s.Update(stale)
	assert.Nil(t, s.session)

	s.session = flashcard.New("DSA")
	req := s.session.Start()
	s.Update(stale)
	assert.True(t, s.session.Loading(), "response for another session is ignored")

	s.Update(cardLoadedMsg{Req: req, Card: mcqCard("c9")})
	card, ok := s.session.Card()
	require.True(t, ok)
	assert.Equal(t, "c9", card.ID)
}

func TestFetchErrorAndRetry(t *testing.T) {
	s, env := newScreen(t)
	env.Backend.CardErr = errors.New("backend down")

	msgs := drain(press(s, '2'))
	_, cmd := s.Update(msgs[0])
	s.Update(findLoaded(t, drain(cmd)))

	assert.NotEmpty(t, s.session.Err())
	assert.Contains(t, s.View(100, 30), "Couldn't load a new card")

	env.Backend.CardErr = nil
	env.Backend.Cards = []api.Card{mcqCard("c1")}
	retry := press(s, 'r')
	require.NotNil(t, retry)
	s.Update(findLoaded(t, drain(retry)))

	card, ok := s.session.Card()
	require.True(t, ok)
	assert.Equal(t, "c1", card.ID)
	assert.Empty(t, s.session.Err())
}

func TestCloseInvalidatesFetch(t *testing.T) {
	s, _ := newScreen(t, mcqCard("c1"))
	msgs := drain(press(s, '1'))
	_, cmd := s.Update(msgs[0])
	loaded := findLoaded(t, drain(cmd))

	s.Close()
	s.Update(loaded)
	_, ok := s.session.Card()
	assert.False(t, ok)
}
