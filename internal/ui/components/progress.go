package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/ui/theme"
)

const (
	barFull  = "█"
	barEmpty = "░"

	// percentWidth fits "  100%".
	percentWidth = 6
	minBarWidth  = 4
)

// ProgressBar is a fixed-width bar with an optional label and percentage.
// Percent is clamped to [0, 1].
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width, Fill: theme.Primary}
}

// MasteryBar shows a topic score out of 100, colored weak, fair or strong.
func MasteryBar(topic string, score, labelWidth, width int) string {
	p := NewProgressBar(topic, float64(score)/100, true, width)
	p.LabelWidth = labelWidth
	switch {
	case score < 40:
		p.Fill = theme.Error
	case score < 70:
		p.Fill = theme.Accent
	default:
		p.Fill = theme.Success
	}
	return p.View()
}

func (p ProgressBar) View() string {
	pct := math.Max(0, math.Min(p.Percent, 1))

	var label string
	if p.Label != "" {
		st := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			st = st.Width(p.LabelWidth)
		}
		label = st.Render(p.Label) + "  "
	}

	width := p.Width - lipgloss.Width(label)
	if p.ShowPercent {
		width -= percentWidth
	}
	width = max(width, minBarWidth)
	filled := int(float64(width) * pct)

	fill := p.Fill
	if fill == nil {
		fill = theme.Primary
	}
	bar := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat(barFull, filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat(barEmpty, width-filled))

	if !p.ShowPercent {
		return label + bar
	}
	return label + bar + theme.Hint.UnsetItalic().Render(fmt.Sprintf("%*d%%", percentWidth-1, int(math.Round(pct*100))))
}
