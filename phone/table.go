package phone

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vortex-fintech/geophone/validator"
)

// Range is an inclusive interval of normalized numeric values.
type Range struct {
	Start uint64 `json:"start" yaml:"start"`
	End   uint64 `json:"end" yaml:"end" validate:"gtefield=Start"`
}

// Contains reports whether Start <= v <= End.
func (r Range) Contains(v uint64) bool {
	return r.Start <= v && v <= r.End
}

// Provider is one operator and the ranges it owns, in lookup order.
type Provider struct {
	Name   string  `json:"name" yaml:"name" validate:"required"`
	Ranges []Range `json:"ranges" yaml:"ranges" validate:"required,min=1,dive"`
}

// Table is the ordered provider → ranges mapping. Order is significant:
// lookups return the first provider whose range matches, overlaps included.
type Table []Provider

// Lookup scans providers and their ranges in order and returns the first
// provider owning v.
func (t Table) Lookup(v uint64) (string, bool) {
	for _, p := range t {
		for _, r := range p.Ranges {
			if r.Contains(v) {
				return p.Name, true
			}
		}
	}
	return "", false
}

// Providers returns provider names in table order.
func (t Table) Providers() []string {
	out := make([]string, 0, len(t))
	for _, p := range t {
		out = append(out, p.Name)
	}
	return out
}

// RangeCount is the total number of ranges across providers.
func (t Table) RangeCount() int {
	n := 0
	for _, p := range t {
		n += len(p.Ranges)
	}
	return n
}

// Clone returns a deep copy so callers cannot mutate a resolver's table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, p := range t {
		out[i] = Provider{Name: p.Name, Ranges: append([]Range(nil), p.Ranges...)}
	}
	return out
}

// Validate checks every provider has a name and at least one range, that
// Start <= End holds for each range, and that names are unique.
// Overlapping ranges are allowed.
func (t Table) Validate() error {
	if len(t) == 0 {
		return &TableError{Fields: map[string]string{"table": "required"}}
	}

	fields := map[string]string{}
	seen := make(map[string]int, len(t))
	for i, p := range t {
		prefix := fmt.Sprintf("providers[%d]", i)
		for f, reason := range validator.Validate(p) {
			fields[prefix+"."+f] = reason
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if j, dup := seen[name]; dup {
			fields[prefix+".Name"] = fmt.Sprintf("duplicate_of_providers[%d]", j)
			continue
		}
		seen[name] = i
	}

	if len(fields) > 0 {
		return &TableError{Fields: fields}
	}
	return nil
}

// TableError lists the table fields that failed validation. It unwraps to
// ErrInvalidTable.
type TableError struct {
	Fields map[string]string
}

func (e *TableError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("phone: %v: %s", ErrInvalidTable, strings.Join(parts, "; "))
}

func (e *TableError) Unwrap() error { return ErrInvalidTable }
