package rangesource

import (
	"context"
	_ "embed"

	"github.com/vortex-fintech/geophone/phone"
)

//go:embed geo_phone_ranges.yaml
var embeddedRanges []byte

type embedded struct{}

// Embedded returns the built-in Georgian range table.
func Embedded() Source { return embedded{} }

func (embedded) Name() string { return "embedded" }

func (embedded) Load(context.Context) (phone.Table, error) {
	return DecodeBytes(embeddedRanges)
}

// Default decodes the built-in table. It panics if the embedded document
// is broken, which the package tests rule out.
func Default() phone.Table {
	t, err := DecodeBytes(embeddedRanges)
	if err != nil {
		panic(err)
	}
	return t
}
