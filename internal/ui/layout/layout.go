package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

// Terminal size limits. Below the minimum the app shows a resize notice
// instead of the active screen.
const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool   { return width < CompactWidthThreshold }
func IsCompactHeight(height int) bool { return height < CompactHeightThreshold }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains for a screen once the chrome is drawn.
func ContentHeight(totalHeight int) int {
	return max(totalHeight-HeaderHeight-FooterHeight, 0)
}

func RenderMinSizeMessage(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Terminal too small"),
		"",
		theme.Body.Render(fmt.Sprintf("DevReady needs at least %d×%d.", MinWidth, MinHeight)),
		theme.Hint.Render(fmt.Sprintf("Current size: %d×%d", width, height)),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// HeaderStats summarizes the signed-in user for the header. The zero value
// means signed out and renders nothing.
type HeaderStats struct {
	Name   string
	XP     int
	Streak int
	League profile.League
}

func (s HeaderStats) render(compact bool) string {
	if s.Name == "" {
		return ""
	}
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%d XP", s.XP)),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d", s.Streak)),
	}
	if s.League != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.LeagueColor(s.League)).Render(string(s.League)))
	}
	if !compact {
		parts = append([]string{theme.Label.Render(s.Name)}, parts...)
	}
	return strings.Join(parts, "  ")
}

// RenderHeader draws the app name on the left, the screen title centered
// and the user summary on the right. The name is dropped on narrow
// terminals.
func RenderHeader(title string, stats HeaderStats, width int) string {
	inner := max(width-4, 0)
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" DevReady")
	right := stats.render(IsCompactWidth(width))
	center := lipgloss.PlaceHorizontal(
		max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0),
		lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Render(title),
	)
	return chrome(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

// RenderFooter lists key hints left to right and drops the ones that do
// not fit rather than wrapping.
func RenderFooter(hints []KeyHint, width int) string {
	room := max(width-6, 0)
	var b strings.Builder
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		sep := ""
		if i > 0 {
			sep = "   "
		}
		if lipgloss.Width(b.String())+lipgloss.Width(sep+part) > room {
			break
		}
		b.WriteString(sep + part)
	}
	return chrome(width).Render(" " + b.String())
}

// RenderFrame stacks header, content and footer, padding the content to
// fill the height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func chrome(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
