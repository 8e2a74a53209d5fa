package errors

import (
	"context"
	"errors"

	"github.com/vortex-fintech/geophone/phone"
)

// Reasons reported for phone failures.
const (
	ReasonInvalidFormat    = "invalid_format"
	ReasonTooShort         = "too_short"
	ReasonProviderNotFound = "provider_not_found"
	ReasonInvalidTable     = "invalid_range_table"
)

// FromPhone converts a resolver error into an ErrorResponse:
//   - ErrInvalidFormat, ErrTooShort -> InvalidArgument
//   - ErrProviderNotFound           -> NotFound
//   - ErrInvalidTable               -> FailedPrecondition (+ violations)
//
// ErrorResponse values pass through; anything else is Internal.
func FromPhone(err error) ErrorResponse {
	if err == nil {
		return Internal().WithReason("unexpected_error")
	}

	var er ErrorResponse
	if errors.As(err, &er) {
		return er
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Canceled()
	case errors.Is(err, context.DeadlineExceeded):
		return DeadlineExceeded()
	}

	number := ""
	var pe *phone.Error
	if errors.As(err, &pe) {
		number = pe.Number
	}

	switch {
	case errors.Is(err, phone.ErrInvalidFormat):
		return withNumber(InvalidArgument().
			WithReason(ReasonInvalidFormat).
			WithMessage("Phone number must be 9 digits, optionally prefixed with country code 995"), number)

	case errors.Is(err, phone.ErrTooShort):
		return withNumber(InvalidArgument().
			WithReason(ReasonTooShort).
			WithMessage("Phone number is too short after normalization"), number)

	case errors.Is(err, phone.ErrProviderNotFound):
		return withNumber(NotFound().
			WithReason(ReasonProviderNotFound).
			WithMessage("No provider owns this phone number"), number)

	case errors.Is(err, phone.ErrInvalidTable):
		resp := FailedPrecondition().
			WithReason(ReasonInvalidTable).
			WithMessage("Provider range table is invalid")
		var te *phone.TableError
		if errors.As(err, &te) {
			resp = resp.WithDetails(te.Fields).WithViolations(ViolationsFromMap(te.Fields))
		}
		return resp
	}

	return Internal().WithReason("unexpected_error")
}

func withNumber(e ErrorResponse, number string) ErrorResponse {
	if number == "" {
		return e
	}
	return e.WithDetail("number", number)
}
