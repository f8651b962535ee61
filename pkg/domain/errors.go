package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session key cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrCannotAscend is returned by Session.Ascend when the breadcrumb holds
// fewer than two entries.
var ErrCannotAscend = errors.New("cannot ascend: breadcrumb too short")

// ErrContentUnchanged is returned by a Messenger when an edit carries the same
// text and keyboard the message already shows. The renderer treats it as a
// successful no-op.
var ErrContentUnchanged = errors.New("message content unchanged")

// ValidationError rejects user input in a Save transition's parse step. It is
// recovered locally: the message is sent back to the user and navigation
// returns Back. Any other error from a parser is a transition fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
