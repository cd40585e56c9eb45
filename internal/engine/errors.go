package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidSide reports a scoring side outside {1, 2}. Invalid input is
// surfaced synchronously to the caller, never coerced.
var ErrInvalidSide = errors.New("side must be 1 or 2")

// invalidSide wraps ErrInvalidSide with the offending value.
func invalidSide(side fmt.Stringer) error {
	return fmt.Errorf("advance: side %s: %w", side, ErrInvalidSide)
}
