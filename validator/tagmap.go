package validator

import "sync"

var (
	tagMu  sync.RWMutex
	tagMap = map[string]string{
		"required":      "required",
		"required_if":   "required",
		"omitempty":     "optional",
		"e164":          "invalid_phone",
		"geophone":      "invalid_phone_number",
		"url":           "invalid_url",
		"hostname_port": "invalid_address",
		"max":           "too_long",
		"min":           "too_short",
		"len":           "invalid_length",
		"gt":            "too_small",
		"lt":            "too_large",
		"gte":           "too_small_or_equal",
		"lte":           "too_large_or_equal",
		"gtefield":      "less_than_start",
		"eqfield":       "field_mismatch",
		"oneof":         "invalid_choice",
		"numeric":       "only_numbers_allowed",
		"unique":        "duplicate",
	}
)

func mapTagToCode(tag string) string {
	tagMu.RLock()
	defer tagMu.RUnlock()
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}

func setReason(tag, reason string) {
	tagMu.Lock()
	tagMap[tag] = reason
	tagMu.Unlock()
}

// TagReasons returns a copy of the tag → reason table, suitable for
// errors.FromPlayground.
func TagReasons() map[string]string {
	tagMu.RLock()
	defer tagMu.RUnlock()
	out := make(map[string]string, len(tagMap))
	for k, val := range tagMap {
		out[k] = val
	}
	return out
}
