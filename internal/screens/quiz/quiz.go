package quiz

import (
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/router"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

// errNoGenerator is reported when no LLM provider is configured.
var errNoGenerator = errors.New("no LLM provider configured")

const (
	rowTopic = iota
	rowCount
)

// QuizScreen runs one quiz: setup, loading, playing and results.
type QuizScreen struct {
	svc     *services.Services
	machine *quiz.Machine
	options components.OptionList
	spinner spinner.Model
	row     int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a QuizScreen in setup.
func New(svc *services.Services) *QuizScreen {
	return &QuizScreen{
		svc:     svc,
		machine: quiz.New(),
		spinner: components.NewSpinner(),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Close drops any generation still in flight.
func (s *QuizScreen) Close() {
	s.machine.Cancel()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.machine.Phase() {
	case quiz.PhaseSetup:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.PhaseLoading:
		return []layout.KeyHint{
			{Key: "c", Description: "Cancel"},
			{Key: "Esc", Description: "Back"},
		}
	case quiz.PhasePlaying:
		if s.machine.Answered() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next"},
				{Key: "Esc", Description: "Quit quiz"},
			}
		}
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Choose"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	default:
		return []layout.KeyHint{
			{Key: "r", Description: "New quiz"},
			{Key: "Enter", Description: "Home"},
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestions(msg)

	case spinner.TickMsg:
		if s.machine.Phase() != quiz.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.machine.Phase() {
	case quiz.PhaseSetup:
		switch key {
		case "up", "k":
			s.row = rowTopic
		case "down", "j":
			s.row = rowCount
		case "left", "h":
			s.cycle(-1)
		case "right", "l", "tab":
			s.cycle(1)
		case "enter":
			return s.start()
		}

	case quiz.PhaseLoading:
		if key == "c" {
			s.machine.Cancel()
		}

	case quiz.PhasePlaying:
		if s.machine.Answered() {
			if key == "enter" || key == "space" || key == "n" {
				s.machine.Next()
				s.resetOptions()
			}
			return s, nil
		}
		var chosen int
		s.options, chosen = s.options.Update(msg)
		if chosen < 0 {
			return s, nil
		}
		pr, ok := s.machine.SelectIndex(chosen)
		if !ok {
			return s, nil
		}
		return s, s.svc.ReportProgress(pr)

	case quiz.PhaseResults:
		switch key {
		case "r":
			s.machine.Restart()
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *QuizScreen) cycle(delta int) {
	if s.row == rowTopic {
		s.machine.CycleTopic(delta)
	} else {
		s.machine.CycleCount(delta)
	}
}

func (s *QuizScreen) start() (screen.Screen, tea.Cmd) {
	req, err := s.machine.Start()
	if err != nil {
		return s, nil
	}
	gen := s.svc.Generator
	log := s.svc.Log
	svc := s.svc
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		if gen == nil {
			return questionsReadyMsg{Request: req, Err: errNoGenerator}
		}
		ctx, cancel := svc.Context()
		defer cancel()
		qs, err := gen.Generate(ctx, req.Input)
		if err != nil {
			log.Warn("quiz generation failed",
				zap.String("topic", req.Input.Topic), zap.Int("count", req.Input.Count), zap.Error(err))
		}
		return questionsReadyMsg{Request: req, Questions: qs, Err: err}
	})
}

func (s *QuizScreen) handleQuestions(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	if !s.machine.Loaded(msg.Request, msg.Questions, msg.Err) {
		s.svc.Log.Debug("dropped stale quiz batch",
			zap.String("session", msg.Request.Session), zap.Int("attempt", msg.Request.Attempt))
		return s, nil
	}
	s.resetOptions()
	return s, nil
}

func (s *QuizScreen) resetOptions() {
	if q, ok := s.machine.Current(); ok {
		s.options = components.NewOptionList(q.Options)
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch s.machine.Phase() {
	case quiz.PhaseSetup:
		body = s.renderSetup(cw)
	case quiz.PhaseLoading:
		body = s.renderLoading(cw)
	case quiz.PhasePlaying:
		body = s.renderQuestion(cw)
	default:
		body = s.renderResults(cw)
	}
	return components.Centered(body, width, height)
}
