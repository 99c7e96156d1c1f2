package leaderboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/league"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

func (s *LeaderboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	leagueName := lipgloss.NewStyle().
		Foreground(theme.LeagueColor(s.league)).
		Bold(true).
		Render(string(s.league) + " LEAGUE")
	resets := theme.Hint.Render("Resets in " + s.countdown)
	gap := max(1, cw-lipgloss.Width(leagueName)-lipgloss.Width(resets))
	header := leagueName + strings.Repeat(" ", gap) + resets

	var body string
	switch {
	case !s.view.Joined():
		body = components.Panel(
			theme.Body.Render("You're not in a league yet.")+"\n\n"+
				theme.Hint.Render("Answer a quiz question or a flashcard to be placed in this week's group."), cw)
	case !s.view.Loaded() && s.view.LastErr() != nil:
		body = components.ErrorBox("Couldn't load the leaderboard.", "Press r to retry.", cw)
	case !s.view.Loaded():
		body = components.Panel(s.spinner.View()+" "+theme.Body.Render("Loading standings..."), cw)
	default:
		body = s.renderTable(cw)
		if s.view.LastErr() != nil {
			body += "\n" + theme.Hint.Render("Showing last known standings; refresh failed.")
		}
	}

	return components.Centered(header+"\n\n"+body, width, height)
}

func (s *LeaderboardScreen) renderTable(cw int) string {
	entries := s.view.Entries()
	if len(entries) == 0 {
		return components.Panel(theme.Hint.Render("No one has earned XP in this group yet."), cw)
	}

	nameWidth := max(8, cw-6-4-8-10-4)
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-4s%-*s%-8s%10s", "#", nameWidth, "Name", "Rank", "Weekly XP")))
	b.WriteString("\n")

	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Email
		}
		if s.view.IsCurrentUser(e) {
			name += " (you)"
		}
		if lipgloss.Width(name) > nameWidth-1 {
			name = string([]rune(name)[:max(1, nameWidth-2)]) + "…"
		}

		marker := " "
		if league.InPromotionZone(i) {
			marker = "▲"
		}
		line := fmt.Sprintf("%s%-3d%-*s%-8s%10d", marker, i+1, nameWidth, name, e.Rank, e.WeeklyXP)

		var style lipgloss.Style
		switch {
		case s.view.IsCurrentUser(e):
			style = theme.Selected
		case league.InPromotionZone(i):
			style = lipgloss.NewStyle().Foreground(theme.Success)
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if i == league.PromotionZone-1 && len(entries) > league.PromotionZone {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("┄", cw-6)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Top %d are promoted at the weekly reset.", league.PromotionZone)))
	return components.Panel(b.String(), cw)
}
