package phone

import "strconv"

// Provider names used by the bundled Georgian range table.
const (
	Magti   = "Magti"
	Silknet = "Silknet"
	Cellfie = "Cellfie"
)

// Resolver identifies the provider of a Georgian number and formats it.
// It holds no mutable state and is safe for concurrent use; build it once
// and share it.
type Resolver struct {
	table  Table
	strict bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrictValidation makes every operation additionally require the
// normalized number to be a valid Georgian number per libphonenumber.
func WithStrictValidation() Option {
	return func(r *Resolver) { r.strict = true }
}

// New validates table and returns a resolver over a private copy of it.
func New(table Table, opts ...Option) (*Resolver, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	r := &Resolver{table: table.Clone()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(table Table, opts ...Option) *Resolver {
	r, err := New(table, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Table returns a copy of the configured table.
func (r *Resolver) Table() Table { return r.table.Clone() }

// Providers returns provider names in lookup order.
func (r *Resolver) Providers() []string { return r.table.Providers() }

// Strict reports whether libphonenumber validation is enabled.
func (r *Resolver) Strict() bool { return r.strict }

// Normalize is the package Normalize plus the strict check when enabled.
func (r *Resolver) Normalize(input string) (string, error) {
	normalized, err := Normalize(input)
	if err != nil {
		return "", err
	}
	if r.strict {
		if err := validateNormalized(normalized); err != nil {
			return "", err
		}
	}
	return normalized, nil
}

// Identify returns the name of the first provider whose range contains the
// normalized number.
func (r *Resolver) Identify(input string) (string, error) {
	normalized, err := r.Normalize(input)
	if err != nil {
		return "", err
	}

	// 12 digits always fit in uint64.
	v, err := strconv.ParseUint(normalized, 10, 64)
	if err != nil {
		return "", newError("identify", normalized, ErrInvalidFormat)
	}

	name, ok := r.table.Lookup(v)
	if !ok {
		return "", newError("identify", normalized, ErrProviderNotFound)
	}
	return name, nil
}

// Is reports whether input belongs to provider. Identification failures are
// returned, never folded into false.
func (r *Resolver) Is(input, provider string) (bool, error) {
	name, err := r.Identify(input)
	if err != nil {
		return false, err
	}
	return name == provider, nil
}

func (r *Resolver) IsMagti(input string) (bool, error)   { return r.Is(input, Magti) }
func (r *Resolver) IsSilknet(input string) (bool, error) { return r.Is(input, Silknet) }
func (r *Resolver) IsCellfie(input string) (bool, error) { return r.Is(input, Cellfie) }

// Parse normalizes and splits input.
func (r *Resolver) Parse(input string) (Parsed, error) {
	normalized, err := r.Normalize(input)
	if err != nil {
		return Parsed{}, err
	}
	return split(normalized)
}

// Format renders input in style, or returns ("", false) when it cannot be
// parsed.
func (r *Resolver) Format(input string, style Style) (string, bool) {
	p, err := r.Parse(input)
	if err != nil {
		return "", false
	}
	return p.Render(style), true
}

// FormatAs is Format with the style given by name; unknown names fall back
// to International.
func (r *Resolver) FormatAs(input, styleName string) (string, bool) {
	return r.Format(input, ParseStyle(styleName))
}

// Result bundles everything known about one number.
type Result struct {
	Parsed
	Provider string           `json:"provider"`
	Formats  map[Style]string `json:"formats"`
}

// Lookup parses input, identifies its provider and renders every style.
func (r *Resolver) Lookup(input string) (Result, error) {
	p, err := r.Parse(input)
	if err != nil {
		return Result{}, err
	}
	provider, err := r.Identify(p.Full)
	if err != nil {
		return Result{}, err
	}

	formats := make(map[Style]string, len(styles))
	for _, s := range styles {
		formats[s] = p.Render(s)
	}
	return Result{Parsed: p, Provider: provider, Formats: formats}, nil
}
