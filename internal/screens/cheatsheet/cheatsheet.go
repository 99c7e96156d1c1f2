// Package cheatsheet is the quick-reference screen: one sheet per quiz
// topic, a search box, and a detail card for the chosen concept.
package cheatsheet

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/cheatsheet"
	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

type openConceptMsg struct{ Index int }

// CheatSheetScreen lists the concepts of one topic, narrowed by the search
// query. Enter or a digit opens a concept.
type CheatSheetScreen struct {
	lib     cheatsheet.Library
	loadErr string
	topic   int
	search  components.Field
	menu    components.Menu
	shown   []cheatsheet.Concept
	open    *cheatsheet.Concept
}

var _ screen.Screen = (*CheatSheetScreen)(nil)
var _ screen.KeyHintProvider = (*CheatSheetScreen)(nil)
var _ screen.InputCapturer = (*CheatSheetScreen)(nil)

func New(svc *services.Services) *CheatSheetScreen {
	s := &CheatSheetScreen{search: components.NewField("Search", "filter concepts", 40)}
	lib, err := cheatsheet.Load()
	if err != nil {
		svc.Log.Error("cheat sheets unavailable", zap.Error(err))
		s.loadErr = "Cheat sheets could not be loaded."
	}
	s.lib = lib
	for i, t := range quiz.Topics {
		if t == quiz.DefaultTopic {
			s.topic = i
		}
	}
	s.rebuild()
	return s
}

func (s *CheatSheetScreen) Init() tea.Cmd { return nil }

func (s *CheatSheetScreen) Title() string { return "Cheat Sheets" }

// CapturingInput keeps Esc for the search box and the detail card.
func (s *CheatSheetScreen) CapturingInput() bool {
	return s.search.Focused() || s.open != nil
}

func (s *CheatSheetScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.open != nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Close"}}
	case s.search.Focused():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Topic"},
		{Key: "/", Description: "Search"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CheatSheetScreen) topicName() string { return quiz.Topics[s.topic] }

// rebuild refreshes the visible list from the topic and query.
func (s *CheatSheetScreen) rebuild() {
	s.shown = cheatsheet.Filter(s.lib.Sheet(s.topicName()), s.search.Value())
	items := make([]components.MenuItem, len(s.shown))
	for i, c := range s.shown {
		items[i] = components.MenuItem{
			Label:  c.Name,
			Action: func() tea.Cmd { return func() tea.Msg { return openConceptMsg{Index: i} } },
		}
	}
	s.menu = components.NewMenu(items)
}

func (s *CheatSheetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openConceptMsg:
		if msg.Index >= 0 && msg.Index < len(s.shown) {
			c := s.shown[msg.Index]
			s.open = &c
		}
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.search.Focused() {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CheatSheetScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.open != nil {
		switch key {
		case "esc", "enter", "backspace", "q":
			s.open = nil
		}
		return s, nil
	}

	if s.search.Focused() {
		switch key {
		case "esc":
			s.search.SetValue("")
			s.search.Blur()
			s.rebuild()
			return s, nil
		case "enter", "down", "tab":
			s.search.Blur()
			return s, nil
		}
		before := s.search.Value()
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		if s.search.Value() != before {
			s.rebuild()
		}
		return s, cmd
	}

	switch key {
	case "/":
		return s, s.search.Focus()
	case "left", "h":
		s.cycle(-1)
		return s, nil
	case "right", "l", "tab":
		s.cycle(+1)
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *CheatSheetScreen) cycle(delta int) {
	n := len(quiz.Topics)
	s.topic = ((s.topic+delta)%n + n) % n
	s.rebuild()
}

func (s *CheatSheetScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.loadErr != "" {
		return components.Centered(components.ErrorBox(s.loadErr, "Esc to go back", cw), width, height)
	}
	if s.open != nil {
		return components.Centered(renderConcept(*s.open, cw), width, height)
	}

	var list string
	if len(s.shown) == 0 {
		list = theme.Hint.Render(fmt.Sprintf("No concepts match %q.", s.search.Value()))
	} else {
		list = s.menu.View()
		if c := s.menu.Selected; c >= 0 && c < len(s.shown) {
			list += "\n" + theme.Hint.Render(s.shown[c].Desc)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderTabs(s.topic),
		"",
		s.search.View(),
		"",
		components.Panel(list, cw),
	)
	return components.Centered(content, width, height)
}

func renderTabs(active int) string {
	tabs := make([]string, len(quiz.Topics))
	for i, t := range quiz.Topics {
		if i == active {
			tabs[i] = theme.Selected.Render("[" + t + "]")
		} else {
			tabs[i] = theme.Unselected.Render(" " + t + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func renderConcept(c cheatsheet.Concept, cw int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render(c.Desc))
	if len(c.Details) > 0 {
		b.WriteString("\n\n" + theme.Label.Render("Key points"))
		for _, d := range c.Details {
			b.WriteString("\n" + theme.Body.Render("• "+d))
		}
	}
	if c.Syntax != "" {
		code := lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.TrimRight(c.Syntax, "\n"))
		b.WriteString("\n\n" + theme.Label.Render("Syntax") + "\n" + code)
	}
	return components.TitledPanel(c.Name, b.String(), cw)
}
