package phone

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat: the input does not normalize to 995 + 9 digits.
	ErrInvalidFormat = errors.New("invalid phone number format")
	// ErrTooShort is the parser's secondary length guard.
	ErrTooShort = errors.New("phone number too short")
	// ErrProviderNotFound: no configured range contains the number.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrInvalidTable: the range table failed validation at construction.
	ErrInvalidTable = errors.New("invalid range table")
)

// Error records the failed operation and the number it was applied to.
// Number holds the digits as seen after normalization (or the raw input
// when normalization itself could not produce anything better).
type Error struct {
	Op     string
	Number string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Number == "" && e.Op == "":
		return e.Err.Error()
	case e.Number == "":
		return fmt.Sprintf("phone: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("phone: %s %q: %v", e.Op, e.Number, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, number string, err error) error {
	return &Error{Op: op, Number: number, Err: err}
}
