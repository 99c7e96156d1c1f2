package components

import (
	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels.
// Every panel on a screen is rendered at this width so they line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border card at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// TitledPanel is a Panel with a bold heading line.
func TitledPanel(title, content string, cw int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)
	return Panel(heading+"\n\n"+content, cw)
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// ErrorBox renders a failure message with a retry hint underneath.
func ErrorBox(msg, hint string, cw int) string {
	body := theme.ErrorText.Render(msg)
	if hint != "" {
		body += "\n\n" + theme.Hint.Render(hint)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Width(cw - 2).
		Padding(1, 2).
		Render(body)
}
