package rangesource

import (
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/geophone/phone"
)

// Encode writes t in the document shape Decode reads, keeping provider
// order.
func Encode(w io.Writer, t phone.Table) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range t {
		ranges := &yaml.Node{Kind: yaml.SequenceNode}
		for _, r := range p.Ranges {
			ranges.Content = append(ranges.Content, &yaml.Node{
				Kind:  yaml.MappingNode,
				Style: yaml.FlowStyle,
				Content: []*yaml.Node{
					scalar("start"), uintScalar(r.Start),
					scalar("end"), uintScalar(r.End),
				},
			})
		}
		root.Content = append(root.Content, scalar(p.Name), ranges)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return enc.Close()
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func uintScalar(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
}
