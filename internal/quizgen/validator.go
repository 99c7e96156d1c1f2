package quizgen

import (
	"fmt"
	"strings"
)

// Validator checks a generated batch.
type Validator interface {
	Name() string
	Validate(qs []Question, input Input) *ValidationError
}

// ValidationError describes why a batch was rejected.
type ValidationError struct {
	Validator string
	Index     int // question index, or -1 for the whole batch
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}

// CountValidator requires exactly the requested number of questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []Question, input Input) *ValidationError {
	if len(qs) != input.Count {
		return &ValidationError{
			Validator: v.Name(),
			Index:     -1,
			Message:   fmt.Sprintf("got %d questions, want %d", len(qs), input.Count),
		}
	}
	return nil
}

// StructuralValidator checks that every question has text, an explanation
// and at least two distinct options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, _ Input) *ValidationError {
	fail := func(i int, msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Index: i, Message: msg}
	}
	for i, q := range qs {
		if strings.TrimSpace(q.Text) == "" {
			return fail(i, "question is empty")
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return fail(i, "explanation is empty")
		}
		if len(q.Options) < 2 {
			return fail(i, "needs at least 2 options")
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return fail(i, "option is empty")
			}
			if seen[o] {
				return fail(i, fmt.Sprintf("duplicate option %q", o))
			}
			seen[o] = true
		}
	}
	return nil
}

// AnswerInOptionsValidator requires correctAnswer to be a literal member of
// options, since answers are checked by exact match.
type AnswerInOptionsValidator struct{}

func (v *AnswerInOptionsValidator) Name() string { return "answer-in-options" }

func (v *AnswerInOptionsValidator) Validate(qs []Question, _ Input) *ValidationError {
	for i, q := range qs {
		found := false
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return &ValidationError{
				Validator: v.Name(),
				Index:     i,
				Message:   fmt.Sprintf("correctAnswer %q is not one of the options", q.CorrectAnswer),
			}
		}
	}
	return nil
}
