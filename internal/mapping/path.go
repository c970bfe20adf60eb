package mapping

import (
	"errors"
	"fmt"
	"strings"
)

const pathSeparator = "."

// TargetPath represents a parsed dotted target path like "a.b.c".
type TargetPath struct {
	Segments []string
}

// ParsePath parses a dotted target path.
// Supports: "field", "nested.field", "deeply.nested.field".
func ParsePath(path string) (TargetPath, error) {
	if path == "" {
		return TargetPath{}, errors.New("empty path")
	}

	segments := strings.Split(path, pathSeparator)
	for _, seg := range segments {
		if seg == "" {
			return TargetPath{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if strings.TrimSpace(seg) != seg {
			return TargetPath{}, fmt.Errorf("invalid path %q: segment %q has surrounding whitespace", path, seg)
		}
	}

	return TargetPath{Segments: segments}, nil
}

// String returns the path as a string.
func (p TargetPath) String() string {
	return strings.Join(p.Segments, pathSeparator)
}
