package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a mapping document (YAML or JSON) from the given path.
func LoadFile(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML (or JSON) data into a Specification.
func Parse(data []byte) (*Specification, error) {
	var spec Specification

	err := yaml.Unmarshal(data, &spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&spec)

	return &spec, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(spec *Specification) {
	for i := range spec.EntityMappings {
		em := &spec.EntityMappings[i]

		for j := range em.AttributeMappings {
			am := &em.AttributeMappings[j]
			if am.Rule == "" {
				am.Rule = RuleDirectCopy
			}
		}

		for j := range em.RelationshipMappings {
			rm := &em.RelationshipMappings[j]
			if rm.Direction == "" {
				rm.Direction = DirectionForward
			}
		}
	}
}

// Marshal serializes a Specification to YAML.
func Marshal(spec *Specification) ([]byte, error) {
	return yaml.Marshal(spec)
}

// WriteFile writes a Specification to the given path.
func WriteFile(spec *Specification, path string) error {
	data, err := Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
