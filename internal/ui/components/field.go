package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/devndesk/DevReady/internal/ui/theme"
)

// Field is a labeled single-line text input with an inline error.
type Field struct {
	Label string
	Model textinput.Model
	Err   string
}

// NewField creates an unfocused field.
func NewField(label, placeholder string, charLimit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return Field{Label: label, Model: ti}
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Focused reports whether the field has focus.
func (f Field) Focused() bool {
	return f.Model.Focused()
}

// SetValue replaces the field contents.
func (f *Field) SetValue(v string) {
	f.Model.SetValue(v)
}

// Value returns the current input value.
func (f Field) Value() string {
	return f.Model.Value()
}

// Update forwards msg to the underlying input and clears a stale error on
// any edit.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	before := f.Model.Value()
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	if f.Model.Value() != before {
		f.Err = ""
	}
	return f, cmd
}

// View renders the label, the input and any error beneath it.
func (f Field) View() string {
	label := theme.Label
	if f.Model.Focused() {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	s := label.Render(f.Label) + "\n" + f.Model.View()
	if f.Err != "" {
		s += "\n" + theme.ErrorText.Render(f.Err)
	}
	return s
}

// FocusGroup cycles focus through a fixed list of fields.
type FocusGroup struct {
	Fields []Field
	Index  int
}

// NewFocusGroup focuses the first field.
func NewFocusGroup(fields ...Field) (FocusGroup, tea.Cmd) {
	g := FocusGroup{Fields: fields}
	return g, g.focus(0)
}

func (g *FocusGroup) focus(i int) tea.Cmd {
	if len(g.Fields) == 0 {
		return nil
	}
	g.Fields[g.Index].Blur()
	g.Index = (i + len(g.Fields)) % len(g.Fields)
	return g.Fields[g.Index].Focus()
}

// Next moves focus forward, wrapping around.
func (g *FocusGroup) Next() tea.Cmd { return g.focus(g.Index + 1) }

// Prev moves focus backward, wrapping around.
func (g *FocusGroup) Prev() tea.Cmd { return g.focus(g.Index - 1) }

// Last reports whether the focused field is the final one.
func (g FocusGroup) Last() bool { return g.Index == len(g.Fields)-1 }

// Update routes msg to the focused field.
func (g FocusGroup) Update(msg tea.Msg) (FocusGroup, tea.Cmd) {
	if len(g.Fields) == 0 {
		return g, nil
	}
	var cmd tea.Cmd
	g.Fields[g.Index], cmd = g.Fields[g.Index].Update(msg)
	return g, cmd
}

// View renders every field separated by a blank line.
func (g FocusGroup) View() string {
	var s string
	for i, f := range g.Fields {
		if i > 0 {
			s += "\n\n"
		}
		s += f.View()
	}
	return s
}
