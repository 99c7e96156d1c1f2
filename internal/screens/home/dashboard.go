package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/quiz"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

func renderGreeting(p profile.UserProfile, syncing bool, cw int) string {
	line := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Welcome back, " + p.DisplayName())
	if syncing {
		line += "  " + theme.Hint.Render("syncing...")
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(line)
}

// renderStats renders XP, streak, solved count and league in one panel.
func renderStats(p profile.UserProfile, cw int) string {
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)

	cell := func(v, l string) string {
		return value.Render(v) + " " + label.Render(l)
	}

	league := lipgloss.NewStyle().
		Foreground(theme.LeagueColor(p.CurrentLeague)).
		Bold(true).
		Render(string(p.CurrentLeague))

	row1 := strings.Join([]string{
		cell(fmt.Sprintf("%d", p.TotalXP), "XP"),
		cell(fmt.Sprintf("%d", p.CurrentStreak), "day streak"),
		cell(fmt.Sprintf("%d", p.QuestionsSolved), "solved"),
	}, "   ")
	row2 := strings.Join([]string{
		label.Render("Rank") + " " + value.Render(string(p.Rank)),
		label.Render("League") + " " + league,
		cell(fmt.Sprintf("%d", p.WeeklyXP), "XP this week"),
	}, "   ")

	return components.Panel(row1+"\n"+row2, cw)
}

// renderMastery shows one bar per quiz topic.
func renderMastery(p profile.UserProfile, cw int) string {
	labelWidth := 0
	for _, t := range quiz.Topics {
		labelWidth = max(labelWidth, lipgloss.Width(t))
	}
	var lines []string
	for _, t := range quiz.Topics {
		lines = append(lines, components.MasteryBar(t, p.MasteryFor(t), labelWidth, cw-6))
	}
	return components.TitledPanel("Mastery", strings.Join(lines, "\n"), cw)
}
