package phone

import "strings"

// Style selects a textual rendering of a number.
type Style string

const (
	International Style = "international"
	National      Style = "national"
	E164          Style = "e164"
	RFC3966       Style = "rfc3966"
	Compact       Style = "compact"
)

var styles = []Style{International, National, E164, RFC3966, Compact}

// Styles returns every supported style, International first.
func Styles() []Style {
	return append([]Style(nil), styles...)
}

// ParseStyle maps a style name case-insensitively. Empty or unknown names
// yield International.
func ParseStyle(name string) Style {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case International, National, E164, RFC3966, Compact:
		return s
	default:
		return International
	}
}

// Render applies the style template to an already parsed number. Unknown
// styles render as International.
func (p Parsed) Render(style Style) string {
	switch style {
	case National:
		return p.Prefix + " " + p.Main
	case E164:
		return "+" + CountryCode + p.Prefix + p.Main
	case RFC3966:
		return "tel:+" + CountryCode + "-" + p.Prefix + "-" + p.Main
	case Compact:
		return CountryCode + p.Prefix + p.Main
	default:
		return "+" + CountryCode + " " + p.Prefix + " " + p.Main
	}
}

// Format renders input in the given style. It never fails: when input
// cannot be parsed the result is ("", false).
func Format(input string, style Style) (string, bool) {
	p, err := Parse(input)
	if err != nil {
		return "", false
	}
	return p.Render(style), true
}
