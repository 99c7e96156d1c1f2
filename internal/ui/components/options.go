package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/ui/theme"
)

// Reveal describes the answer state an OptionList renders. Chosen and
// Correct are option indexes, -1 when unknown.
type Reveal struct {
	Shown   bool
	Chosen  int
	Correct int
}

// NoReveal renders the list as still open for selection.
var NoReveal = Reveal{Chosen: -1, Correct: -1}

// OptionList is a lettered multiple-choice list with a cursor. It only
// tracks the cursor; the caller owns what a choice means.
type OptionList struct {
	Options []string
	Cursor  int
}

// NewOptionList creates a list with the cursor on the first option.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Update moves the cursor. It returns the index the user committed to
// with enter or a letter/digit key, or -1 when nothing was chosen.
func (o OptionList) Update(msg tea.Msg) (OptionList, int) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(o.Options) == 0 {
		return o, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, -1
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, -1
	case "enter":
		return o, o.Cursor
	}

	if len(key) == 1 {
		c := key[0]
		var idx = -1
		switch {
		case c >= '1' && c <= '9':
			idx = int(c - '1')
		case c >= 'a' && c <= 'z':
			idx = int(c - 'a')
		}
		if idx >= 0 && idx < len(o.Options) {
			o.Cursor = idx
			return o, idx
		}
	}
	return o, -1
}

// OptionLabel returns the letter shown next to option i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the options. Once revealed, the correct option is green
// and a wrong choice is red.
func (o OptionList) View(r Reveal) string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !r.Shown {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case r.Shown && i == r.Correct:
			style = theme.Correct
		case r.Shown && i == r.Chosen:
			style = theme.Incorrect
		case r.Shown:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
