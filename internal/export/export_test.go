package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-mapper/internal/transform"
)

func sequentialIDs() Option {
	n := 0

	return WithIDFunc(func() string {
		n++
		return fmt.Sprintf("e%d", n)
	})
}

func graph() []transform.Entity {
	project := transform.Entity{transform.ContextKey: "Project"}
	dataset := transform.Entity{
		transform.ContextKey: "Dataset",
		"data_no":            1,
		"has_access_right":   map[string]any{"access_type": "非公開"},
		"belongs_to_project": project,
		"keywords":           []any{"survey", map[string]any{"lang": "ja"}},
	}
	person := transform.Entity{
		transform.ContextKey: "Person",
		"person_id":          "P001",
		"created_datasets":   dataset,
	}

	return []transform.Entity{person, dataset, project}
}

func TestExport_ReplacesBackReferences(t *testing.T) {
	records := Export(graph(), sequentialIDs())
	require.Len(t, records, 3)

	assert.Equal(t, Record{
		ID:      "e1",
		Context: "Person",
		Attributes: map[string]any{
			"person_id":        "P001",
			"created_datasets": map[string]any{RefKey: "e2", transform.ContextKey: "Dataset"},
		},
	}, records[0])

	assert.Equal(t, Record{
		ID:      "e2",
		Context: "Dataset",
		Attributes: map[string]any{
			"data_no":            1,
			"has_access_right":   map[string]any{"access_type": "非公開"},
			"belongs_to_project": map[string]any{RefKey: "e3", transform.ContextKey: "Project"},
			"keywords":           []any{"survey", map[string]any{"lang": "ja"}},
		},
	}, records[1])

	assert.Equal(t, Record{ID: "e3", Context: "Project", Attributes: map[string]any{}}, records[2])
	assert.Equal(t, records[2].Ref(), records[1].Attributes["belongs_to_project"])
}

func TestExport_DanglingReference(t *testing.T) {
	parent := transform.Entity{transform.ContextKey: "Parent"}
	child := transform.Entity{transform.ContextKey: "Child", "up": parent}

	records := Export([]transform.Entity{child}, sequentialIDs())
	require.Len(t, records, 1)

	id, ok := IsRef(records[0].Attributes["up"])
	require.True(t, ok)
	assert.Equal(t, "e2", id)
}

func TestExport_DefaultIDsAreUnique(t *testing.T) {
	records := Export(graph())

	seen := map[string]bool{}
	for _, r := range records {
		assert.Len(t, r.ID, 36)
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
	}
}

func TestIsRef(t *testing.T) {
	_, ok := IsRef(map[string]any{"access_type": "公開"})
	assert.False(t, ok)

	_, ok = IsRef(map[string]any{RefKey: 1, transform.ContextKey: "X"})
	assert.False(t, ok)

	_, ok = IsRef("e1")
	assert.False(t, ok)

	id, ok := IsRef(map[string]any{RefKey: "e1", transform.ContextKey: "X"})
	assert.True(t, ok)
	assert.Equal(t, "e1", id)
}

func TestEncodeDecode(t *testing.T) {
	records := Export(graph(), sequentialIDs())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, records))
	assert.Contains(t, buf.String(), `"$ref": "e2"`)
	assert.Contains(t, buf.String(), "非公開")

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assert.Equal(t, "Dataset", decoded[1].Context)
	assert.InDelta(t, 1.0, decoded[1].Attributes["data_no"], 1e-9)
	assert.Equal(t, records[2].Ref(), decoded[1].Attributes["belongs_to_project"])
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, graph())

	out := buf.String()
	assert.Contains(t, out, "P001")
	assert.Contains(t, out, "belongs_to_project")
}
