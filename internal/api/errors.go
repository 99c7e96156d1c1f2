package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend answers with an empty body,
// for example when no flashcard is left for a category.
var ErrNotFound = errors.New("not found")

// ErrUnavailable indicates the backend could not be reached at all.
type ErrUnavailable struct {
	Op  string
	Err error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s: backend unavailable: %v", e.Op, e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Body)
}

// ErrDecode indicates a response body that does not match the expected
// shape.
type ErrDecode struct {
	Op  string
	Err error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ErrDecode) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying later: the backend
// was unreachable or answered with a server error.
func IsTransient(err error) bool {
	var unavailable *ErrUnavailable
	if errors.As(err, &unavailable) {
		return true
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500 || status.Code == 429
	}
	return false
}
