package quiz

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/quizgen"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/services/servicestest"
)

func questions(n int) []quizgen.Question {
	qs := make([]quizgen.Question, n)
	for i := range qs {
		qs[i] = quizgen.Question{
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"right", "wrong", "nope", "never"},
			CorrectAnswer: "right",
			Explanation:   "Because.",
		}
	}
	return qs
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

func findReady(t *testing.T, msgs []tea.Msg) questionsReadyMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(questionsReadyMsg); ok {
			return r
		}
	}
	t.Fatalf("no questionsReadyMsg in %v", msgs)
	return questionsReadyMsg{}
}

func newScreen(t *testing.T) (*QuizScreen, *servicestest.Env, *servicestest.Generator) {
	t.Helper()
	env := servicestest.New(t)
	env.SignIn(t, "dev@example.com", "Ada")
	gen := &servicestest.Generator{Questions: questions(5)}
	env.Svc.Generator = gen
	s := New(env.Svc)
	require.NoError(t, s.machine.SetCount(5))
	return s, env, gen
}

func keyMsg(code rune) tea.KeyPressMsg {
	if code > ' ' && code < unicode.MaxRune {
		return tea.KeyPressMsg{Code: code, Text: string(code)}
	}
	return tea.KeyPressMsg{Code: code}
}

func press(s *QuizScreen, code rune) tea.Cmd {
	_, cmd := s.Update(keyMsg(code))
	return cmd
}

func TestStartGeneratesAndPlays(t *testing.T) {
	s, _, gen := newScreen(t)

	cmd := press(s, tea.KeyEnter)
	require.Equal(t, quiz.PhaseLoading, s.machine.Phase())
	assert.Contains(t, s.View(100, 30), "Generating 5 Java Core questions")

	ready := findReady(t, drain(cmd))
	assert.Equal(t, 1, gen.Calls)
	s.Update(ready)

	assert.Equal(t, quiz.PhasePlaying, s.machine.Phase())
	assert.Contains(t, s.View(100, 30), "Question 1?")
}

func TestSetupCyclesTopicAndCount(t *testing.T) {
	s, _, _ := newScreen(t)

	press(s, tea.KeyRight)
	assert.Equal(t, "Spring Boot", s.machine.Topic())

	press(s, tea.KeyDown)
	press(s, tea.KeyLeft)
	assert.Equal(t, 20, s.machine.Count(), "5 wraps back to 20")
	assert.Equal(t, "Spring Boot", s.machine.Topic())
}

func TestStaleBatchDropped(t *testing.T) {
	s, _, _ := newScreen(t)

	first := findReady(t, drain(press(s, tea.KeyEnter)))
	press(s, 'c')
	require.Equal(t, quiz.PhaseSetup, s.machine.Phase())

	second := findReady(t, drain(press(s, tea.KeyEnter)))
	require.NotEqual(t, first.Request.Attempt, second.Request.Attempt)

	s.Update(first)
	assert.Equal(t, quiz.PhaseLoading, s.machine.Phase(), "cancelled attempt must not start the quiz")

	s.Update(second)
	assert.Equal(t, quiz.PhasePlaying, s.machine.Phase())
}

func TestClosedScreenBatchNotShownInNewQuiz(t *testing.T) {
	first, env, _ := newScreen(t)
	late := findReady(t, drain(press(first, tea.KeyEnter)))
	first.Close()

	second := New(env.Svc)
	require.NoError(t, second.machine.SetCount(5))
	second.machine.CycleTopic(2)
	fresh := findReady(t, drain(press(second, tea.KeyEnter)))
	require.Equal(t, late.Request.Attempt, fresh.Request.Attempt)

	second.Update(late)
	assert.Equal(t, quiz.PhaseLoading, second.machine.Phase(), "batch of a closed quiz must be dropped")

	second.Update(fresh)
	require.Equal(t, quiz.PhasePlaying, second.machine.Phase())
	assert.Equal(t, "DSA", second.machine.Topic())

	drain(press(second, 'a'))
	reports := env.Backend.ProgressReports()
	require.Len(t, reports, 1)
	assert.Equal(t, "DSA", reports[0].Topic)
}

func TestGenerationFailureReturnsToSetup(t *testing.T) {
	s, _, gen := newScreen(t)
	gen.Err = errors.New("rate limited")

	s.Update(findReady(t, drain(press(s, tea.KeyEnter))))

	assert.Equal(t, quiz.PhaseSetup, s.machine.Phase())
	assert.Contains(t, s.View(120, 40), "Couldn't generate questions")
}

func TestNoGeneratorShowsError(t *testing.T) {
	env := servicestest.New(t)
	s := New(env.Svc)

	view := s.View(120, 40)
	assert.Contains(t, view, "No LLM provider configured")

	ready := findReady(t, drain(press(s, tea.KeyEnter)))
	assert.ErrorIs(t, ready.Err, errNoGenerator)
	s.Update(ready)
	assert.Equal(t, quiz.PhaseSetup, s.machine.Phase())
}

func TestAnswerReportsProgressAndReveals(t *testing.T) {
	s, env, _ := newScreen(t)
	s.Update(findReady(t, drain(press(s, tea.KeyEnter))))

	cmd := press(s, 'a')
	require.NotNil(t, cmd, "answer should report progress")
	assert.True(t, s.machine.Answered())
	assert.Equal(t, 1, s.machine.Score())
	drain(cmd)

	reports := env.Backend.ProgressReports()
	require.Len(t, reports, 1)
	assert.Equal(t, "Java Core", reports[0].Topic)
	assert.True(t, reports[0].Correct)
	assert.Equal(t, quiz.Difficulty, reports[0].Difficulty)

	p := env.Svc.Profile()
	assert.Equal(t, 10, p.TotalXP)

	assert.Nil(t, press(s, 'b'), "second answer is ignored")
	assert.Equal(t, 1, s.machine.Score())
}

func TestFullQuizToResults(t *testing.T) {
	s, _, _ := newScreen(t)
	s.Update(findReady(t, drain(press(s, tea.KeyEnter))))

	for i := 0; i < 5; i++ {
		answer := 'a'
		if i%2 == 1 {
			answer = 'b'
		}
		press(s, answer)
		press(s, tea.KeyEnter)
	}

	require.Equal(t, quiz.PhaseResults, s.machine.Phase())
	assert.Equal(t, quiz.Result{Score: 3, Total: 5, Percent: 60}, s.machine.Result())
	assert.True(t, strings.Contains(s.View(100, 30), "3 / 5"))

	cmd := press(s, tea.KeyEnter)
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok, "enter on results returns home")
}

func TestRestartKeepsSelections(t *testing.T) {
	s, _, _ := newScreen(t)
	press(s, tea.KeyRight)
	s.Update(findReady(t, drain(press(s, tea.KeyEnter))))
	for i := 0; i < 5; i++ {
		press(s, 'a')
		press(s, tea.KeyEnter)
	}
	require.Equal(t, quiz.PhaseResults, s.machine.Phase())

	press(s, 'r')
	assert.Equal(t, quiz.PhaseSetup, s.machine.Phase())
	assert.Equal(t, "Spring Boot", s.machine.Topic())
	assert.Equal(t, 5, s.machine.Count())
}

func TestCloseCancelsLoading(t *testing.T) {
	s, _, _ := newScreen(t)
	ready := findReady(t, drain(press(s, tea.KeyEnter)))

	s.Close()
	s.Update(ready)
	assert.Equal(t, quiz.PhaseSetup, s.machine.Phase())
}
