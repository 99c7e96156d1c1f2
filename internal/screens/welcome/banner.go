package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ███████╗██╗   ██╗██████╗ ███████╗ █████╗ ██████╗ ██╗   ██╗
 ██╔══██╗██╔════╝██║   ██║██╔══██╗██╔════╝██╔══██╗██╔══██╗╚██╗ ██╔╝
 ██║  ██║█████╗  ██║   ██║██████╔╝█████╗  ███████║██║  ██║ ╚████╔╝
 ██║  ██║██╔══╝  ╚██╗ ██╔╝██╔══██╗██╔══╝  ██╔══██║██║  ██║  ╚██╔╝
 ██████╔╝███████╗ ╚████╔╝ ██║  ██║███████╗██║  ██║██████╔╝   ██║
 ╚═════╝ ╚══════╝  ╚═══╝  ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝    ╚═╝`

const (
	bannerCompact = "D E V R E A D Y"
	bannerMinCols = 72
)

// RenderBanner draws the block-letter logo, shading the lower half in the
// secondary color. Terminals narrower than the art get the spaced-out
// wordmark instead.
func RenderBanner(width int) string {
	top := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < bannerMinCols {
		return top.Render(bannerCompact)
	}
	bottom := top.Foreground(theme.Secondary)

	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	for i, line := range lines {
		if i < len(lines)/2 {
			lines[i] = top.Render(line)
		} else {
			lines[i] = bottom.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
