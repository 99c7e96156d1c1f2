package home

import (
	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // week-long streak or top rank
	MascotAlert                     // streak lost
)

const mascotIdle = `┌──────────┐
│ >_  ◉ ◉  │
│     ‿    │
└──────────┘`

const mascotCelebrating = `┌──────────┐
│ >_  ★ ★  │
│     ▽    │
└─╥══════╥─┘`

const mascotAlert = `┌──────────┐
│ >_  ◉ ◉  │ !
│     ︵    │
└──────────┘`

// mascotFor picks the variant from the user's momentum.
func mascotFor(p profile.UserProfile) MascotVariant {
	switch {
	case p.CurrentStreak >= 7 || p.Rank == profile.RankElite:
		return MascotCelebrating
	case p.CurrentStreak == 0 && p.QuestionsSolved > 0:
		return MascotAlert
	default:
		return MascotIdle
	}
}

func mascotMessage(v MascotVariant) string {
	switch v {
	case MascotCelebrating:
		return "You're on fire. Keep shipping!"
	case MascotAlert:
		return "Your streak reset. One answer brings it back."
	default:
		return "Ready when you are."
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotAlert:
		art = mascotAlert
		fg = theme.Error
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

func renderMascot(v MascotVariant, cw int) string {
	block := lipgloss.JoinHorizontal(lipgloss.Center,
		RenderMascot(v),
		"   ",
		theme.Hint.Render(mascotMessage(v)),
	)
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(block)
}
