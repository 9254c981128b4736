package workflow

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDomain        = errors.New("unknown entity domain")
	ErrUnknownStatus        = errors.New("status not configured")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrTransitionInFlight   = errors.New("transition already in flight")
)

// ValidationError maps to a single form field. It is raised locally before any request, or
// translated from a server rejection that names a field.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
}

// RejectedError is a server rejection without a field; shown as a toast.
type RejectedError struct {
	Code    string
	Message string
}

func (e RejectedError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
