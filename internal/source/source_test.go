package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Example(t *testing.T) {
	src, err := LoadFile(filepath.Join("..", "..", "examples", "dmp-to-cao", "source.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "JP20H00000", src["project_number"])

	datasets, ok := src["has_datasets"].([]any)
	require.True(t, ok)
	require.Len(t, datasets, 2)

	first, ok := datasets[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, first["dataset_no"])

	person, ok := first["collected_by"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "P001", person["contributor_id"])
}

func TestParse_NonStringKeys(t *testing.T) {
	src, err := Parse([]byte("codes:\n  1: one\n  true: yes\n"))
	require.NoError(t, err)

	codes, ok := src["codes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "one", codes["1"])
	assert.Equal(t, "yes", codes["true"])
}

func TestParseJSON(t *testing.T) {
	src, err := ParseJSON([]byte(`{"dataset_no": 1, "tags": ["a", "b"], "nested": {"x": null}}`))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, src["dataset_no"], 1e-9)
	assert.Equal(t, []any{"a", "b"}, src["tags"])
	assert.Equal(t, map[string]any{"x": nil}, src["nested"])
}

func TestParse_NotObject(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"list", "- a\n- b\n"},
		{"scalar", "hello"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrNotObject)
		})
	}

	_, err := ParseJSON([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("a: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotObject)

	_, err = ParseJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestLoadFile_JSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title": "x", "n": 2}`), 0o600))

	src, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", src["title"])
	assert.Equal(t, 2.0, src["n"])
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
