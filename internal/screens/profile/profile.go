package profile

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/profile"
	"github.com/devndesk/DevReady/internal/screen"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/ui/components"
	"github.com/devndesk/DevReady/internal/ui/layout"
)

type mode int

const (
	modeView mode = iota
	modeEdit
	modeConfirmLogout
)

const (
	fieldName = iota
	fieldPosition
	fieldEmail
	fieldPhone
)

// editSavedMsg reports the outcome of a profile edit.
type editSavedMsg struct {
	Err error
}

// logoutDoneMsg reports the outcome of a logout.
type logoutDoneMsg struct {
	Err error
}

// ProfileScreen shows the user's details and badges, and edits them.
type ProfileScreen struct {
	svc    *services.Services
	mode   mode
	form   components.FocusGroup
	saving bool
	notice string
	errMsg string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)
var _ screen.InputCapturer = (*ProfileScreen)(nil)

// New creates a ProfileScreen in view mode.
func New(svc *services.Services) *ProfileScreen {
	return &ProfileScreen{svc: svc}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

// CapturingInput keeps Esc and q inside the screen while a form or prompt
// is open.
func (s *ProfileScreen) CapturingInput() bool {
	return s.mode != modeView
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeEdit:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmLogout:
		return []layout.KeyHint{
			{Key: "y", Description: "Log out"},
			{Key: "n", Description: "Stay"},
		}
	}
	return []layout.KeyHint{
		{Key: "e", Description: "Edit"},
		{Key: "L", Description: "Log out"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case editSavedMsg:
		s.saving = false
		if msg.Err != nil {
			s.errMsg = "Couldn't save: " + msg.Err.Error()
			return s, nil
		}
		s.mode = modeView
		s.notice = "Saved."
		if len(s.svc.Engine.Pending()) > 0 {
			s.notice = "Saved locally. Will sync when the server is reachable."
		}
		return s, nil

	case logoutDoneMsg:
		if msg.Err != nil {
			s.svc.Log.Warn("logout cleanup failed", zap.Error(msg.Err))
		}
		return s, func() tea.Msg { return services.LoggedOutMsg{} }

	case tea.KeyPressMsg:
		switch s.mode {
		case modeView:
			return s.handleViewKey(msg)
		case modeConfirmLogout:
			return s.handleConfirmKey(msg)
		case modeEdit:
			if s.saving {
				return s, nil
			}
			switch msg.String() {
			case "esc":
				s.mode = modeView
				s.errMsg = ""
				return s, nil
			case "tab", "down":
				return s, s.form.Next()
			case "shift+tab", "up":
				return s, s.form.Prev()
			case "enter", "ctrl+s":
				return s.save()
			}
		}
	}

	if s.mode == modeEdit && !s.saving {
		var cmd tea.Cmd
		s.form, cmd = s.form.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ProfileScreen) handleViewKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "e":
		return s, s.startEdit()
	case "L", "shift+l":
		s.mode = modeConfirmLogout
	}
	return s, nil
}

func (s *ProfileScreen) handleConfirmKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		svc := s.svc
		return s, func() tea.Msg {
			ctx, cancel := svc.Context()
			defer cancel()
			return logoutDoneMsg{Err: svc.Engine.Logout(ctx)}
		}
	case "n", "N", "esc":
		s.mode = modeView
	}
	return s, nil
}

func (s *ProfileScreen) startEdit() tea.Cmd {
	p := s.svc.Profile()
	name := components.NewField("Name", profile.PlaceholderName, 80)
	name.SetValue(p.Name)
	position := components.NewField("Position", "Backend Engineer", 80)
	position.SetValue(p.Position)
	email := components.NewField("Email", "you@example.com", 254)
	email.SetValue(p.Email)
	phone := components.NewField("Phone", "+1 555 0100", 32)
	phone.SetValue(p.Phone)

	var cmd tea.Cmd
	s.form, cmd = components.NewFocusGroup(name, position, email, phone)
	s.mode = modeEdit
	s.notice = ""
	s.errMsg = ""
	return cmd
}

// buildEdit returns an edit containing only the fields the user changed,
// recording a validation error on each failing field.
func (s *ProfileScreen) buildEdit() (profile.Edit, bool) {
	p := s.svc.Profile()
	var edit profile.Edit
	valid := true

	check := func(idx int, current string, set func(*string) profile.Edit, assign func(*string)) {
		v := strings.TrimSpace(s.form.Fields[idx].Value())
		if v == current {
			return
		}
		if err := set(&v).Validate(); err != nil {
			s.form.Fields[idx].Err = fieldMessage(err)
			valid = false
			return
		}
		assign(&v)
	}

	check(fieldName, p.Name,
		func(v *string) profile.Edit { return profile.Edit{Name: v} },
		func(v *string) { edit.Name = v })
	check(fieldPosition, p.Position,
		func(v *string) profile.Edit { return profile.Edit{Position: v} },
		func(v *string) { edit.Position = v })
	check(fieldEmail, p.Email,
		func(v *string) profile.Edit { return profile.Edit{Email: v} },
		func(v *string) { edit.Email = v })
	check(fieldPhone, p.Phone,
		func(v *string) profile.Edit { return profile.Edit{Phone: v} },
		func(v *string) { edit.Phone = v })

	if edit.Email != nil && *edit.Email == "" {
		s.form.Fields[fieldEmail].Err = "Email can't be empty"
		valid = false
	}
	if edit.Name != nil && *edit.Name == "" {
		s.form.Fields[fieldName].Err = "Name can't be empty"
		valid = false
	}
	return edit, valid
}

func fieldMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Invalid value"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (s *ProfileScreen) save() (screen.Screen, tea.Cmd) {
	edit, ok := s.buildEdit()
	if !ok {
		return s, nil
	}
	if edit.Empty() {
		s.mode = modeView
		return s, nil
	}

	s.saving = true
	s.errMsg = ""
	svc := s.svc
	return s, func() tea.Msg {
		ctx, cancel := svc.Context()
		defer cancel()
		_, err := svc.Engine.ApplyProfileEdit(ctx, edit)
		if err != nil && !errors.Is(err, profile.ErrInvalidEdit) {
			svc.Log.Warn("profile edit failed", zap.Error(err))
		}
		return editSavedMsg{Err: err}
	}
}
