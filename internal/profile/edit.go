package profile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Edit is a user-initiated change to descriptive profile fields. Nil
// fields are left unchanged.
type Edit struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=80"`
	Position   *string `json:"position" validate:"omitempty,max=80"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	ProfilePic *string `json:"profilePic" validate:"omitempty,max=2097152"`
}

// Empty reports whether the edit changes nothing.
func (e Edit) Empty() bool {
	return e.Name == nil && e.Position == nil && e.Email == nil && e.Phone == nil && e.ProfilePic == nil
}

// Fields returns the set of fields the edit touches.
func (e Edit) Fields() FieldSet {
	s := FieldSet{}
	if e.Name != nil {
		s[FieldName] = struct{}{}
	}
	if e.Position != nil {
		s[FieldPosition] = struct{}{}
	}
	if e.Email != nil {
		s[FieldEmail] = struct{}{}
	}
	if e.Phone != nil {
		s[FieldPhone] = struct{}{}
	}
	if e.ProfilePic != nil {
		s[FieldProfilePic] = struct{}{}
	}
	return s
}

// Apply returns p with the edit applied.
func (e Edit) Apply(p UserProfile) UserProfile {
	out := p.Clone()
	if e.Name != nil {
		out.Name = strings.TrimSpace(*e.Name)
	}
	if e.Position != nil {
		out.Position = strings.TrimSpace(*e.Position)
	}
	if e.Email != nil {
		out.Email = strings.TrimSpace(*e.Email)
	}
	if e.Phone != nil {
		out.Phone = strings.TrimSpace(*e.Phone)
	}
	if e.ProfilePic != nil {
		out.ProfilePic = *e.ProfilePic
	}
	return out
}

// ErrInvalidEdit wraps validation failures of an Edit.
var ErrInvalidEdit = errors.New("invalid profile edit")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the edit and returns an error describing every failing
// field, wrapping ErrInvalidEdit.
func (e Edit) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidEdit, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+validationMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidEdit, strings.Join(msgs, "; "))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return "invalid email format"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "invalid value"
	}
}
