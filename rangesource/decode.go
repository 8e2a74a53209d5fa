package rangesource

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/geophone/phone"
)

type rangeDoc struct {
	Start *uint64 `yaml:"start"`
	End   *uint64 `yaml:"end"`
}

// Decode reads a provider → ranges mapping in YAML or JSON. Provider order
// follows the document.
func Decode(r io.Reader) (phone.Table, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, decodeErr("empty document")
		}
		return nil, fmt.Errorf("rangesource: decode: %w: %w", phone.ErrInvalidTable, err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, decodeErr("empty document")
		}
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, decodeErr(fmt.Sprintf("line %d: expected a mapping of providers", doc.Line))
	}

	table := make(phone.Table, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		if val.Kind != yaml.SequenceNode {
			return nil, decodeErr(fmt.Sprintf("line %d: provider %q: expected a list of ranges", val.Line, key.Value))
		}

		p := phone.Provider{Name: key.Value, Ranges: make([]phone.Range, 0, len(val.Content))}
		for j, item := range val.Content {
			var rd rangeDoc
			if err := item.Decode(&rd); err != nil {
				return nil, decodeErr(fmt.Sprintf("line %d: provider %q range %d: %v", item.Line, key.Value, j, err))
			}
			if rd.Start == nil || rd.End == nil {
				return nil, decodeErr(fmt.Sprintf("line %d: provider %q range %d: start and end are required", item.Line, key.Value, j))
			}
			p.Ranges = append(p.Ranges, phone.Range{Start: *rd.Start, End: *rd.End})
		}
		table = append(table, p)
	}
	return table, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (phone.Table, error) {
	return Decode(bytes.NewReader(b))
}

func decodeErr(msg string) error {
	return fmt.Errorf("rangesource: decode: %w: %s", phone.ErrInvalidTable, msg)
}
