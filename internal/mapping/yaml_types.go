package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errDuplicateValueKey = errors.New("duplicate value_map key")

// --- ValueMap YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for ValueMap.
// Keys keep their YAML type and document order.
func (m *ValueMap) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*m = ValueMap{}
			return nil
		}

		return fmt.Errorf("line %d: value_map must be a mapping", node.Line)

	case yaml.MappingNode:
		var out ValueMap

		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]

			var (
				from any
				to   any
			)

			if err := keyNode.Decode(&from); err != nil {
				return fmt.Errorf("line %d: invalid value_map key: %w", keyNode.Line, err)
			}

			if err := valNode.Decode(&to); err != nil {
				return fmt.Errorf("line %d: invalid value_map value: %w", valNode.Line, err)
			}

			if err := out.set(from, to); err != nil {
				if errors.Is(err, errDuplicateValueKey) {
					return fmt.Errorf("line %d: %w %s", keyNode.Line, err, formatScalar(from))
				}

				return fmt.Errorf("line %d: %w", keyNode.Line, err)
			}
		}

		*m = out

		return nil

	default:
		return fmt.Errorf("line %d: value_map must be a mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for ValueMap.
// Entries are written in document order.
func (m ValueMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, e := range m.entries {
		var k, v yaml.Node

		if err := k.Encode(e.From); err != nil {
			return nil, err
		}

		if err := v.Encode(e.To); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &k, &v)
	}

	return node, nil
}
