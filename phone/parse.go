package phone

// Parsed is a normalized number split into its operator prefix and the
// subscriber part. Prefix + Main is always the trailing 9 digits of Full.
type Parsed struct {
	Prefix string `json:"prefix"`
	Main   string `json:"main"`
	Full   string `json:"full"`
}

// Parse normalizes input and splits it. Normalization failures are returned
// unchanged.
func Parse(input string) (Parsed, error) {
	normalized, err := Normalize(input)
	if err != nil {
		return Parsed{}, err
	}
	return split(normalized)
}

func split(normalized string) (Parsed, error) {
	// Unreachable while Normalize enforces NormalizedLen; kept in case the
	// normalization rules are ever relaxed.
	if len(normalized) < minParsedLen {
		return Parsed{}, newError("parse", normalized, ErrTooShort)
	}

	return Parsed{
		Prefix: normalized[3:6],
		Main:   normalized[6:],
		Full:   normalized,
	}, nil
}
