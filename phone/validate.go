package phone

import (
	"github.com/nyaruka/phonenumbers"
)

// Region is the libphonenumber region code for Georgia.
const Region = "GE"

// Validate normalizes input and checks it against libphonenumber's Georgian
// numbering plan. It is stricter than Normalize: a well-formed 12-digit
// number may still be unassigned in the plan.
func Validate(input string) error {
	normalized, err := Normalize(input)
	if err != nil {
		return err
	}
	return validateNormalized(normalized)
}

func validateNormalized(normalized string) error {
	num, err := phonenumbers.Parse("+"+normalized, Region)
	if err != nil {
		return newError("validate", normalized, ErrInvalidFormat)
	}
	if !phonenumbers.IsValidNumberForRegion(num, Region) {
		return newError("validate", normalized, ErrInvalidFormat)
	}
	return nil
}
