package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameEntity(t *testing.T) {
	a := Entity{ContextKey: "T"}
	b := Entity{ContextKey: "T"}

	assert.True(t, SameEntity(a, a))
	assert.False(t, SameEntity(a, b))
	assert.Equal(t, a, b)
	assert.True(t, SameEntity(nil, nil))
	assert.False(t, SameEntity(a, nil))
}

func TestEntity_TypeAndRef(t *testing.T) {
	parent := newEntity("Dataset")
	child := newEntity("Person")
	child["created_datasets"] = parent
	child["plain"] = map[string]any{ContextKey: "Dataset"}

	assert.Equal(t, "Person", child.Type())
	assert.Equal(t, "", Entity{}.Type())

	ref, ok := child.Ref("created_datasets")
	assert.True(t, ok)
	assert.True(t, SameEntity(parent, ref))

	_, ok = child.Ref("plain")
	assert.False(t, ok, "nested containers are not back-references")
}

func TestAsSequence(t *testing.T) {
	one := map[string]any{"a": 1}
	src := SourceEntity{"a": 1}

	tests := []struct {
		name   string
		in     any
		want   []any
		isList bool
	}{
		{"single object", one, []any{one}, false},
		{"list", []any{one, one}, []any{one, one}, true},
		{"empty list", []any{}, []any{}, true},
		{"source entities", []SourceEntity{src, src}, []any{src, src}, true},
		{"plain maps", []map[string]any{one}, []any{one}, true},
		{"typed nil slice", []SourceEntity(nil), []any{}, true},
		{"other slice type", []string{"x", "y"}, []any{"x", "y"}, true},
		{"array", [2]int{1, 2}, []any{1, 2}, true},
		{"scalar", "x", []any{"x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isList := asSequence(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isList, isList)
		})
	}
}

func TestCloneValue_TypedCollections(t *testing.T) {
	inner := map[string]any{"k": "v"}
	src := []SourceEntity{{"nested": inner}}

	got, ok := cloneValue(src).([]any)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{"nested": map[string]any{"k": "v"}}, got[0])

	inner["k"] = "changed"
	assert.Equal(t, "v", got[0].(map[string]any)["nested"].(map[string]any)["k"])

	tags := []string{"a", "b"}
	assert.Equal(t, []any{"a", "b"}, cloneValue(tags))

	raw := []byte("xy")
	cp := cloneValue(raw).([]byte)
	raw[0] = 'z'
	assert.Equal(t, []byte("xy"), cp)

	assert.Equal(t, []string(nil), cloneValue([]string(nil)))
}

func TestCollector(t *testing.T) {
	var c Collector
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Snapshot())

	a, b := newEntity("A"), newEntity("B")
	c.Append(a)
	c.Append(b)

	snap := c.Snapshot()
	assert.Equal(t, 2, c.Len())
	assert.True(t, SameEntity(a, snap[0]))
	assert.True(t, SameEntity(b, snap[1]))

	snap[0] = nil
	assert.NotNil(t, c.Snapshot()[0])
}
