package phone

import (
	"fmt"
	"strings"
)

const (
	// CountryCode is the Georgian calling code every normalized number starts with.
	CountryCode = "995"
	// NormalizedLen is the length of CountryCode plus the 9-digit subscriber number.
	NormalizedLen = 12

	minParsedLen = 9
)

// Integer is the set of integer kinds accepted by Digits.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Digits renders an integer in plain decimal, so a number held as an
// integer goes through the same normalization as its string spelling.
// %d ignores any String method on named integer types.
func Digits[T Integer](v T) string {
	return fmt.Sprintf("%d", v)
}

// Normalize strips every non-digit from input and prepends CountryCode
// when it is missing. The result is always exactly NormalizedLen digits.
func Normalize(input string) (string, error) {
	digits := stripNonDigits(input)
	if !strings.HasPrefix(digits, CountryCode) {
		digits = CountryCode + digits
	}
	if len(digits) != NormalizedLen {
		return "", newError("normalize", digits, ErrInvalidFormat)
	}
	return digits, nil
}

// Only ASCII digits count; other Unicode decimal digits are dropped.
func stripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
