package logutil

import "strings"

const (
	shortDigitCountThreshold = 4
	keepShortDigits          = 1
	keepLongDigits           = 4
)

// MaskNumber hides all but the last digits of a phone number while keeping
// separators, so log lines stay correlatable without carrying the number:
//
//	"+995 555 123 456" -> "+*** *** **3 456"
//	"995555123456"     -> "********3456"
//	"1234"             -> "***4"
//	"x"                -> "x"
func MaskNumber(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}

	total := 0
	for i := 0; i < len(number); i++ {
		if isDigit(number[i]) {
			total++
		}
	}
	if total == 0 {
		return number
	}

	keep := keepLongDigits
	if total <= shortDigitCountThreshold {
		keep = keepShortDigits
	}

	b := []byte(number)
	seen := 0
	for i := len(b) - 1; i >= 0; i-- {
		if !isDigit(b[i]) {
			continue
		}
		seen++
		if seen > keep {
			b[i] = '*'
		}
	}
	return string(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
