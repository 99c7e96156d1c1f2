// Package quiz is the state machine behind an interview quiz:
// pick a topic and size, wait for generated questions, answer each once,
// then see the score.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/quizgen"
)

// Phase is the machine's top-level state.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseLoading
	PhasePlaying
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseResults:
		return "results"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Topics are the quiz subjects on offer.
var Topics = []string{"Java Core", "Spring Boot", "DSA", "Sys Design"}

// Counts are the quiz sizes on offer.
var Counts = []int{5, 10, 15, 20}

const (
	DefaultTopic = "Java Core"
	DefaultCount = 10

	// Difficulty is reported for every quiz answer.
	Difficulty = "Hard"
)

// ErrWrongPhase is returned for actions not allowed in the current phase.
var ErrWrongPhase = errors.New("action not allowed in this phase")

// LoadFailedMessage is shown in setup after a failed generation.
const LoadFailedMessage = "Couldn't generate questions. Check your LLM key and try again."

// GenerateRequest asks the question source for a batch. Session and
// Attempt tie the answer back to the machine and request that produced it.
type GenerateRequest struct {
	Session string
	Attempt int
	Input   quizgen.Input
}

// Result is the final score.
type Result struct {
	Score   int
	Total   int
	Percent int
}

// Machine holds one quiz session. It is not safe for concurrent use; the
// UI event loop owns it.
type Machine struct {
	id      string
	phase   Phase
	topic   string
	count   int
	attempt int

	questions []quizgen.Question
	index     int
	score     int
	selected  string
	answered  bool
	errMsg    string
}

// New returns a machine in setup with the default topic and size.
func New() *Machine {
	return &Machine{id: uuid.NewString(), phase: PhaseSetup, topic: DefaultTopic, count: DefaultCount}
}

// ID distinguishes this machine from any other quiz opened in the process.
func (m *Machine) ID() string { return m.id }

func (m *Machine) Phase() Phase { return m.phase }
func (m *Machine) Topic() string { return m.topic }
func (m *Machine) Count() int { return m.count }
func (m *Machine) Index() int { return m.index }
func (m *Machine) Score() int { return m.score }
func (m *Machine) Total() int { return len(m.questions) }
func (m *Machine) Attempt() int { return m.attempt }
func (m *Machine) Err() string { return m.errMsg }
func (m *Machine) Answered() bool { return m.answered }

// Selected returns the chosen option for the current question.
func (m *Machine) Selected() string { return m.selected }

// Current returns the question being shown.
func (m *Machine) Current() (quizgen.Question, bool) {
	if m.phase != PhasePlaying || m.index >= len(m.questions) {
		return quizgen.Question{}, false
	}
	return m.questions[m.index], true
}

// LastAnswerCorrect reports whether the current selection was right.
func (m *Machine) LastAnswerCorrect() bool {
	q, ok := m.Current()
	return ok && m.answered && m.selected == q.CorrectAnswer
}

// SetTopic picks the subject. Only valid in setup.
func (m *Machine) SetTopic(topic string) error {
	if m.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if !slices.Contains(Topics, topic) {
		return fmt.Errorf("unknown topic %q", topic)
	}
	m.topic = topic
	return nil
}

// SetCount picks the quiz size. Only valid in setup.
func (m *Machine) SetCount(n int) error {
	if m.phase != PhaseSetup {
		return ErrWrongPhase
	}
	if !slices.Contains(Counts, n) {
		return fmt.Errorf("unsupported question count %d", n)
	}
	m.count = n
	return nil
}

// CycleTopic moves the topic selection by delta, wrapping around.
func (m *Machine) CycleTopic(delta int) {
	i := slices.Index(Topics, m.topic)
	_ = m.SetTopic(Topics[wrap(i+delta, len(Topics))])
}

// CycleCount moves the size selection by delta, wrapping around.
func (m *Machine) CycleCount(delta int) {
	i := slices.Index(Counts, m.count)
	_ = m.SetCount(Counts[wrap(i+delta, len(Counts))])
}

// Start leaves setup and returns the generation request to run.
func (m *Machine) Start() (GenerateRequest, error) {
	if m.phase != PhaseSetup {
		return GenerateRequest{}, ErrWrongPhase
	}
	m.attempt++
	m.phase = PhaseLoading
	m.errMsg = ""
	return GenerateRequest{
		Session: m.id,
		Attempt: m.attempt,
		Input:   quizgen.Input{Topic: m.topic, Count: m.count},
	}, nil
}

// Loaded delivers the outcome of req. It reports false when the result
// belongs to another machine or a superseded attempt and was dropped.
func (m *Machine) Loaded(req GenerateRequest, qs []quizgen.Question, err error) bool {
	if m.phase != PhaseLoading || req.Session != m.id || req.Attempt != m.attempt {
		return false
	}
	if err == nil && len(qs) != m.count {
		err = fmt.Errorf("got %d questions, want %d", len(qs), m.count)
	}
	if err != nil {
		m.phase = PhaseSetup
		m.errMsg = LoadFailedMessage
		return true
	}
	m.questions = slices.Clone(qs)
	m.index = 0
	m.score = 0
	m.selected = ""
	m.answered = false
	m.phase = PhasePlaying
	return true
}

// Cancel abandons a pending generation and returns to setup. A late
// result for it is dropped.
func (m *Machine) Cancel() {
	if m.phase == PhaseLoading {
		m.attempt++
		m.phase = PhaseSetup
	}
}

// Select answers the current question. The first selection wins; later
// ones, and options not offered, are ignored. The returned progress must
// be reported without blocking the quiz.
func (m *Machine) Select(option string) (api.Progress, bool) {
	q, ok := m.Current()
	if !ok || m.answered || !slices.Contains(q.Options, option) {
		return api.Progress{}, false
	}
	m.answered = true
	m.selected = option
	correct := option == q.CorrectAnswer
	if correct {
		m.score++
	}
	return api.Progress{Topic: m.topic, Correct: correct, Difficulty: Difficulty}, true
}

// SelectIndex answers with the i-th option.
func (m *Machine) SelectIndex(i int) (api.Progress, bool) {
	q, ok := m.Current()
	if !ok || i < 0 || i >= len(q.Options) {
		return api.Progress{}, false
	}
	return m.Select(q.Options[i])
}

// Next moves past an answered question, finishing after the last one.
func (m *Machine) Next() bool {
	if m.phase != PhasePlaying || !m.answered {
		return false
	}
	if m.index+1 >= len(m.questions) {
		m.phase = PhaseResults
		return true
	}
	m.index++
	m.selected = ""
	m.answered = false
	return true
}

// Result returns the score. Percent is rounded to the nearest integer.
func (m *Machine) Result() Result {
	total := len(m.questions)
	r := Result{Score: m.score, Total: total}
	if total > 0 {
		r.Percent = int(math.Round(float64(m.score) / float64(total) * 100))
	}
	return r
}

// Restart returns to setup, clearing questions and score. The topic and
// size selections are kept.
func (m *Machine) Restart() {
	m.attempt++
	m.phase = PhaseSetup
	m.questions = nil
	m.index = 0
	m.score = 0
	m.selected = ""
	m.answered = false
	m.errMsg = ""
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
