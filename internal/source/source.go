// Package source decodes source records from YAML or JSON documents.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"model-mapper/internal/transform"
)

// ErrNotObject is returned when a document's root is not an object.
var ErrNotObject = errors.New("source document root is not an object")

// LoadFile reads a source record. Files ending in .json are decoded as JSON,
// everything else as YAML.
func LoadFile(path string) (transform.SourceEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}

	return Parse(data)
}

// Parse decodes a YAML (or JSON) document into a source entity.
// Mappings with non-string keys are re-keyed by their printed form.
func Parse(data []byte) (transform.SourceEntity, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source YAML: %w", err)
	}

	return asRoot(normalize(doc))
}

// ParseJSON decodes a JSON document into a source entity. Numbers decode
// as float64.
func ParseJSON(data []byte) (transform.SourceEntity, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source JSON: %w", err)
	}

	return asRoot(doc)
}

func asRoot(doc any) (transform.SourceEntity, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w (got %T)", ErrNotObject, doc)
	}

	return transform.SourceEntity(m), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}

		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}

		return out
	case []any:
		for i, val := range x {
			x[i] = normalize(val)
		}

		return x
	default:
		return v
	}
}
