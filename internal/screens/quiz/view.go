package quiz

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

func (s *QuizScreen) renderSetup(cw int) string {
	row := func(idx int, label, value string) string {
		l := theme.Label.Width(10).Render(label)
		v := theme.Unselected.Render("  " + value + "  ")
		if s.row == idx {
			v = theme.Selected.Render("◂ " + value + " ▸")
		}
		return l + v
	}

	var b strings.Builder
	b.WriteString(row(rowTopic, "Topic", s.machine.Topic()))
	b.WriteString("\n\n")
	b.WriteString(row(rowCount, "Questions", fmt.Sprintf("%d", s.machine.Count())))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Difficulty: %s. Each correct answer earns XP.", quiz.Difficulty)))

	sections := []string{components.TitledPanel("New quiz", b.String(), cw)}
	if s.svc.Generator == nil {
		sections = append(sections, components.ErrorBox(
			"No LLM provider configured.",
			"Set GROQ_API_KEY (or another provider key) and restart.", cw))
	} else if msg := s.machine.Err(); msg != "" {
		sections = append(sections, components.ErrorBox(msg, "Press Enter to try again.", cw))
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (s *QuizScreen) renderLoading(cw int) string {
	msg := fmt.Sprintf("Generating %d %s questions...", s.machine.Count(), s.machine.Topic())
	return components.Panel(s.spinner.View()+" "+theme.Body.Render(msg), cw)
}

func (s *QuizScreen) renderQuestion(cw int) string {
	q, ok := s.machine.Current()
	if !ok {
		return ""
	}

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(s.machine.Topic())
	counter := theme.Hint.Render(fmt.Sprintf("Q %d/%d   score %d",
		s.machine.Index()+1, s.machine.Total(), s.machine.Score()))
	gap := max(1, cw-4-lipgloss.Width(info)-lipgloss.Width(counter))
	header := info + strings.Repeat(" ", gap) + counter

	progress := components.NewProgressBar("", float64(s.machine.Index())/float64(s.machine.Total()), false, cw-6)

	question := lipgloss.NewStyle().
		Width(cw - 6).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text)

	reveal := components.NoReveal
	if s.machine.Answered() {
		reveal = components.Reveal{
			Shown:   true,
			Chosen:  slices.Index(q.Options, s.machine.Selected()),
			Correct: slices.Index(q.Options, q.CorrectAnswer),
		}
	}

	parts := []string{header, progress.View(), "", question, "", s.options.View(reveal)}
	if s.machine.Answered() {
		parts = append(parts, renderFeedback(s.machine.LastAnswerCorrect(), q.CorrectAnswer, q.Explanation, cw-6))
	}
	return components.Panel(strings.Join(parts, "\n"), cw)
}

func renderFeedback(correct bool, answer, explanation string, width int) string {
	var verdict string
	if correct {
		verdict = theme.Correct.Render("Correct!")
	} else {
		verdict = theme.Incorrect.Render("Not quite.") + " " +
			theme.Body.Render("Answer: "+answer)
	}
	if explanation == "" {
		return verdict
	}
	return verdict + "\n" + lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(explanation)
}

func (s *QuizScreen) renderResults(cw int) string {
	r := s.machine.Result()
	score := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("%d / %d", r.Score, r.Total))
	pct := components.NewProgressBar("", float64(r.Percent)/100, true, cw-6)

	body := score + "\n\n" + pct.View() + "\n\n" + theme.Body.Render(resultMessage(r.Percent))
	return components.TitledPanel(s.machine.Topic()+" results", body, cw)
}

func resultMessage(percent int) string {
	switch {
	case percent >= 90:
		return "Outstanding. You're interview ready."
	case percent >= 70:
		return "Solid work. A few gaps to close."
	case percent >= 40:
		return "Getting there. Review and try again."
	default:
		return "Tough round. Flashcards can help build the basics."
	}
}
