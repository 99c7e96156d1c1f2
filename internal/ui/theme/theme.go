// Package theme holds the DevReady palette: terminal green on slate, with
// league tiers keeping the colors of their badges.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/profile"
)

var (
	Primary   = lipgloss.Color("#10B981")
	Secondary = lipgloss.Color("#3B82F6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#111827")
	Border    = lipgloss.Color("#1F2937")
)

var leagueColors = map[profile.League]color.Color{
	profile.LeagueBronze:   lipgloss.Color("#FB923C"),
	profile.LeagueSilver:   lipgloss.Color("#D1D5DB"),
	profile.LeagueGold:     lipgloss.Color("#FACC15"),
	profile.LeagueSapphire: lipgloss.Color("#60A5FA"),
	profile.LeagueRuby:     lipgloss.Color("#EF4444"),
	profile.LeagueEmerald:  lipgloss.Color("#34D399"),
	profile.LeagueAmethyst: lipgloss.Color("#C084FC"),
	profile.LeaguePearl:    lipgloss.Color("#F9A8D4"),
	profile.LeagueObsidian: lipgloss.Color("#64748B"),
	profile.LeagueDiamond:  lipgloss.Color("#22D3EE"),
}

// LeagueColor falls back to bronze for unknown tiers.
func LeagueColor(l profile.League) color.Color {
	if c, ok := leagueColors[l]; ok {
		return c
	}
	return leagueColors[profile.LeagueBronze]
}

// Text styles.
var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Body      = lipgloss.NewStyle().Foreground(Text)
	Hint      = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Label     = lipgloss.NewStyle().Foreground(TextDim).Bold(true)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
)

// Answer and menu states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)
