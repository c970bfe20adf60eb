package mapping

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMap_LookupByScalarValue(t *testing.T) {
	yaml := `
entity_mappings:
  - source_selector: {context: A}
    target_selector: {context: B}
    attribute_mappings:
      - source_attribute: x
        rule: map_values
        target_attribute: y
        value_map:
          1: one
          "1": string-one
          true: yes-value
          ~: nothing
`

	spec, err := Parse([]byte(yaml))
	require.NoError(t, err)

	vm := spec.EntityMappings[0].AttributeMappings[0].ValueMap
	require.Equal(t, 4, vm.Len())

	tests := []struct {
		name  string
		in    any
		want  any
		found bool
	}{
		{"int", 1, "one", true},
		{"int64", int64(1), "one", true},
		{"float from JSON", 1.0, "one", true},
		{"json.Number", json.Number("1"), "one", true},
		{"string", "1", "string-one", true},
		{"bool", true, "yes-value", true},
		{"null", nil, "nothing", true},
		{"unmatched number", 2, nil, false},
		{"unmatched bool", false, nil, false},
		{"slice", []any{1}, nil, false},
		{"map", map[string]any{"a": 1}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vm.Lookup(tt.in, NormalNone)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueMap_Normalization(t *testing.T) {
	vm := MustValueMap(
		ValueEntry{From: "ＡＢＣ", To: "abc"},
		ValueEntry{From: "ｺｳｶｲ", To: "公開"},
	)

	_, ok := vm.Lookup("ABC", NormalNone)
	assert.False(t, ok)

	got, ok := vm.Lookup("ABC", NormalNFKC)
	assert.True(t, ok)
	assert.Equal(t, "abc", got)

	got, ok = vm.Lookup("コウカイ", NormalNFKC)
	assert.True(t, ok)
	assert.Equal(t, "公開", got)

	// NFC does not fold width variants
	_, ok = vm.Lookup("ABC", NormalNFC)
	assert.False(t, ok)
}

func TestNewValueMap_Errors(t *testing.T) {
	vm, err := NewValueMap(ValueEntry{From: "a", To: 1}, ValueEntry{From: 2, To: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, vm.Len())

	_, err = NewValueMap(ValueEntry{From: "a", To: 1}, ValueEntry{From: "a", To: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDuplicateValueKey)
	assert.Contains(t, err.Error(), `"a"`)

	// 1 and 1.0 are the same key
	_, err = NewValueMap(ValueEntry{From: 1, To: "x"}, ValueEntry{From: 1.0, To: "y"})
	assert.ErrorIs(t, err, errDuplicateValueKey)

	_, err = NewValueMap(ValueEntry{From: []string{"bad"}, To: 3})
	assert.ErrorContains(t, err, "not a scalar")

	assert.Panics(t, func() {
		MustValueMap(ValueEntry{From: map[string]any{}, To: 1})
	})
}

func TestValueMap_LargeIntegersMatchExactly(t *testing.T) {
	vm := MustValueMap(
		ValueEntry{From: int64(9007199254740992), To: "2^53"},
		ValueEntry{From: uint64(math.MaxUint64), To: "max"},
		ValueEntry{From: 2.5, To: "half"},
	)

	tests := []struct {
		name  string
		in    any
		want  any
		found bool
	}{
		{"exact int64", int64(9007199254740992), "2^53", true},
		{"neighbour int64", int64(9007199254740993), nil, false},
		{"neighbour json.Number", json.Number("9007199254740993"), nil, false},
		{"exact json.Number", json.Number("9007199254740992"), "2^53", true},
		{"integral float", float64(9007199254740992), "2^53", true},
		{"max uint64", uint64(math.MaxUint64), "max", true},
		{"max uint64 minus one", uint64(math.MaxUint64 - 1), nil, false},
		{"fraction", 2.5, "half", true},
		{"fraction from float32", float32(2.5), "half", true},
		{"json.Number fraction", json.Number("2.5"), "half", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vm.Lookup(tt.in, NormalNone)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalForm(t *testing.T) {
	assert.True(t, NormalNone.IsValid())
	assert.True(t, NormalNFC.IsValid())
	assert.True(t, NormalNFKC.IsValid())
	assert.False(t, NormalForm("nfd").IsValid())

	// "e" + combining acute composes under NFC
	assert.Equal(t, "\u00e9", NormalNFC.Apply("e\u0301"))
	assert.Equal(t, "e\u0301", NormalNone.Apply("e\u0301"))
}
