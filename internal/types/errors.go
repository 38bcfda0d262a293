package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMessage means an inbound payload could not be parsed or
	// is missing required fields. The message is dropped before validation.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrInvalidOrder means a parsed order failed semantic validation
	// (unknown side, non-positive quantity or price).
	ErrInvalidOrder = errors.New("invalid order")
)

// InvariantViolationError reports an internal consistency failure in the
// matching path. It indicates a bug, not bad input: the affected
// instrument must stop processing rather than serve an inconsistent book.
type InvariantViolationError struct {
	Instrument string
	Detail     string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation on %s: %s", e.Instrument, e.Detail)
}
