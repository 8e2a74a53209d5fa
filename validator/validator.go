package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New()
}

// Register adds a custom tag and the reason code reported when it fails.
// Call it from init; registration is not safe alongside validation.
func Register(tag, reason string, fn validator.Func) error {
	if err := v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	if reason != "" {
		setReason(tag, reason)
	}
	return nil
}

// Validate checks a struct and returns field path → reason code, or nil
// when the value is valid. Paths are relative to the struct itself, e.g.
// "Ranges[0].End".
func Validate(i any) map[string]string {
	err := v.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_error": "validation_failed"}
	}

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[fieldPath(e)] = mapTagToCode(e.Tag())
	}
	return out
}

// Errors is Validate for callers that need the raw playground errors (for
// example to build violations with descriptions).
func Errors(i any) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if err := v.Struct(i); err != nil && errors.As(err, &errs) {
		return errs
	}
	return nil
}

func fieldPath(e validator.FieldError) string {
	ns := e.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.StructField()
}
