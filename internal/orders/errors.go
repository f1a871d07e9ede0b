package orders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrConflict          = errors.New("order conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoOp              = errors.New("no fields to update")
	ErrTransport         = errors.New("transport error")
	ErrInvalidInput      = errors.New("invalid input")
)

// transportErr tags an infrastructure failure so callers can match ErrTransport
// while the cause stays in the chain.
func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
}
