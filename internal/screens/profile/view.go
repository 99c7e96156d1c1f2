package profile

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

// badgeSlots is how many badges the shelf shows; missing ones are locked
// placeholders.
const badgeSlots = 4

// badgeShelf returns the earned badges padded with locked placeholders up
// to badgeSlots.
func badgeShelf(p profile.UserProfile) []profile.Badge {
	shelf := p.UnlockedBadges()
	for len(shelf) < badgeSlots {
		shelf = append(shelf, profile.Badge{Name: "Locked", Icon: "🔒"})
	}
	return shelf
}

func (s *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p := s.svc.Profile()

	var sections []string
	switch s.mode {
	case modeEdit:
		body := s.form.View()
		if s.saving {
			body += "\n\n" + theme.Hint.Render("Saving...")
		}
		sections = append(sections, components.TitledPanel("Edit profile", body, cw))
	case modeConfirmLogout:
		sections = append(sections, components.Panel(
			theme.Body.Render("Log out of "+p.Email+"?")+"\n\n"+
				theme.Hint.Render("Your cached progress on this machine will be cleared."), cw))
	default:
		sections = append(sections, renderDetails(p, s.svc.Engine.Pending(), cw))
		sections = append(sections, renderBadges(p, cw))
	}

	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	if s.errMsg != "" {
		sections = append(sections, components.ErrorBox(s.errMsg, "", cw))
	}
	return components.Centered(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

func renderDetails(p profile.UserProfile, pending []profile.Field, cw int) string {
	label := theme.Label.Width(12)
	row := func(l, v string) string {
		if v == "" {
			v = theme.Hint.Render("not set")
		} else {
			v = theme.Body.Render(v)
		}
		return label.Render(l) + v
	}

	rows := []string{
		row("Name", p.Name),
		row("Position", p.Position),
		row("Email", p.Email),
		row("Phone", p.Phone),
		"",
		row("Rank", string(p.Rank)),
		row("League", string(p.CurrentLeague)),
		row("Total XP", fmt.Sprintf("%d", p.TotalXP)),
		row("Solved", fmt.Sprintf("%d", p.QuestionsSolved)),
		row("Streak", fmt.Sprintf("%d days (best %d)", p.CurrentStreak, p.LongestStreak)),
	}
	if len(pending) > 0 {
		names := make([]string, len(pending))
		for i, f := range pending {
			names[i] = string(f)
		}
		rows = append(rows, "", theme.Hint.Render("Waiting to sync: "+strings.Join(names, ", ")))
	}
	return components.TitledPanel(p.DisplayName(), strings.Join(rows, "\n"), cw)
}

func renderBadges(p profile.UserProfile, cw int) string {
	var cells []string
	for _, b := range badgeShelf(p) {
		icon := b.Icon
		if icon == "" {
			icon = "🏅"
		}
		style := lipgloss.NewStyle().
			Width(14).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder())
		if b.Unlocked {
			style = style.BorderForeground(theme.Accent).Foreground(theme.Text)
		} else {
			style = style.BorderForeground(theme.Border).Foreground(theme.TextDim)
		}
		cells = append(cells, style.Render(icon+"\n"+b.Name))
	}
	return components.TitledPanel("Badges", lipgloss.JoinHorizontal(lipgloss.Top, cells...), cw)
}
