package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-mapper/internal/mapping"
)

func TestApplyAttributes_Rules(t *testing.T) {
	tests := []struct {
		name string
		src  SourceEntity
		rule mapping.AttributeMapping
		want Entity
	}{
		{
			name: "direct copy",
			src:  SourceEntity{"title": "Survey"},
			rule: mapping.AttributeMapping{SourceAttribute: "title", TargetAttribute: "data_name"},
			want: Entity{"data_name": "Survey"},
		},
		{
			name: "direct copy of null",
			src:  SourceEntity{"title": nil},
			rule: mapping.AttributeMapping{SourceAttribute: "title", TargetAttribute: "data_name"},
			want: Entity{"data_name": nil},
		},
		{
			name: "ignore never writes",
			src:  SourceEntity{"project_number": "JP20H00000"},
			rule: mapping.AttributeMapping{SourceAttribute: "project_number", Rule: mapping.RuleIgnore, TargetAttribute: "project_name"},
			want: Entity{},
		},
		{
			name: "static value replaces source value",
			src:  SourceEntity{"license": "anything"},
			rule: mapping.AttributeMapping{SourceAttribute: "license", Rule: mapping.RuleStaticValue, StaticValue: "CC-BY-4.0", TargetAttribute: "license"},
			want: Entity{"license": "CC-BY-4.0"},
		},
		{
			name: "static value needs the source attribute",
			src:  SourceEntity{},
			rule: mapping.AttributeMapping{SourceAttribute: "license", Rule: mapping.RuleStaticValue, StaticValue: "CC-BY-4.0", TargetAttribute: "license"},
			want: Entity{},
		},
		{
			name: "map values hit",
			src:  SourceEntity{"access_policy": "非共有・非公開"},
			rule: mapping.AttributeMapping{
				SourceAttribute: "access_policy",
				Rule:            mapping.RuleMapValues,
				ValueMap:        mapping.MustValueMap(mapping.ValueEntry{From: "非共有・非公開", To: "非公開"}),
				TargetAttribute: "access_type",
			},
			want: Entity{"access_type": "非公開"},
		},
		{
			name: "map values miss passes through",
			src:  SourceEntity{"access_policy": "制限付き"},
			rule: mapping.AttributeMapping{
				SourceAttribute: "access_policy",
				Rule:            mapping.RuleMapValues,
				ValueMap:        mapping.MustValueMap(mapping.ValueEntry{From: "公開", To: "open"}),
				TargetAttribute: "access_type",
			},
			want: Entity{"access_type": "制限付き"},
		},
		{
			name: "map values matches numbers across representations",
			src:  SourceEntity{"level": 1.0},
			rule: mapping.AttributeMapping{
				SourceAttribute: "level",
				Rule:            mapping.RuleMapValues,
				ValueMap:        mapping.MustValueMap(mapping.ValueEntry{From: 1, To: "low"}),
				TargetAttribute: "level",
			},
			want: Entity{"level": "low"},
		},
		{
			name: "map values with normalization",
			src:  SourceEntity{"access_policy": "ｺｳｶｲ"},
			rule: mapping.AttributeMapping{
				SourceAttribute: "access_policy",
				Rule:            mapping.RuleMapValues,
				Normalize:       mapping.NormalNFKC,
				ValueMap:        mapping.MustValueMap(mapping.ValueEntry{From: "コウカイ", To: "open"}),
				TargetAttribute: "access_type",
			},
			want: Entity{"access_type": "open"},
		},
		{
			name: "flat attribute keeps dots",
			src:  SourceEntity{"a": 1},
			rule: mapping.AttributeMapping{SourceAttribute: "a", TargetAttribute: "x.y"},
			want: Entity{"x.y": 1},
		},
		{
			name: "target path nests",
			src:  SourceEntity{"access_policy": "公開"},
			rule: mapping.AttributeMapping{SourceAttribute: "access_policy", TargetPath: "has_access_right.access_type"},
			want: Entity{"has_access_right": map[string]any{"access_type": "公開"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := Entity{}
			ApplyAttributes(tt.src, []mapping.AttributeMapping{tt.rule}, dst)
			assert.Equal(t, tt.want, dst)
		})
	}
}

func TestApplyAttributes_IgnoreNeverAddsKeys(t *testing.T) {
	rule := mapping.AttributeMapping{SourceAttribute: "v", Rule: mapping.RuleIgnore, TargetPath: "a.b"}

	for _, v := range []any{nil, "s", 1, true, []any{1}, map[string]any{"k": "v"}} {
		dst := Entity{ContextKey: "T"}
		ApplyAttributes(SourceEntity{"v": v}, []mapping.AttributeMapping{rule}, dst)
		assert.Equal(t, Entity{ContextKey: "T"}, dst, "value %v", v)
	}
}

func TestApplyAttributes_PathDepth(t *testing.T) {
	rules := []mapping.AttributeMapping{{SourceAttribute: "v", TargetPath: "a.b.c.d"}}
	src := SourceEntity{"v": "leaf"}

	dst := Entity{}
	ApplyAttributes(src, rules, dst)

	containers := 0
	var node any = map[string]any(dst)
	for _, seg := range []string{"a", "b", "c"} {
		m, ok := node.(map[string]any)
		require.True(t, ok)
		require.Len(t, m, 1)

		node = m[seg]
		if _, ok := node.(map[string]any); ok {
			containers++
		}
	}

	assert.Equal(t, 3, containers)
	assert.Equal(t, map[string]any{"d": "leaf"}, node)

	again := Entity{}
	ApplyAttributes(src, rules, again)
	ApplyAttributes(src, rules, again)
	assert.Equal(t, dst, again)
}

func TestApplyAttributes_SharedPrefix(t *testing.T) {
	rules := []mapping.AttributeMapping{
		{SourceAttribute: "policy", TargetPath: "has_access_right.access_type"},
		{SourceAttribute: "since", TargetPath: "has_access_right.available_from"},
	}

	dst := Entity{}
	ApplyAttributes(SourceEntity{"policy": "公開", "since": "2025-04-01"}, rules, dst)

	assert.Equal(t, Entity{"has_access_right": map[string]any{
		"access_type":    "公開",
		"available_from": "2025-04-01",
	}}, dst)
}

func TestApplyAttributes_ReplacesScalarIntermediate(t *testing.T) {
	rules := []mapping.AttributeMapping{
		{SourceAttribute: "a", TargetAttribute: "x"},
		{SourceAttribute: "b", TargetPath: "x.y"},
	}

	dst := Entity{}
	ApplyAttributes(SourceEntity{"a": "scalar", "b": 2}, rules, dst)

	assert.Equal(t, Entity{"x": map[string]any{"y": 2}}, dst)
}

func TestApplyAttributes_LastWriteWins(t *testing.T) {
	rules := []mapping.AttributeMapping{
		{SourceAttribute: "first", TargetAttribute: "name"},
		{SourceAttribute: "second", TargetAttribute: "name"},
	}

	dst := Entity{}
	ApplyAttributes(SourceEntity{"first": "A", "second": "B"}, rules, dst)
	assert.Equal(t, "B", dst["name"])

	dst = Entity{}
	ApplyAttributes(SourceEntity{"first": "A"}, rules, dst)
	assert.Equal(t, "A", dst["name"])
}

func TestApplyAttributes_DoesNotAliasSource(t *testing.T) {
	src := SourceEntity{"meta": map[string]any{"tags": []any{"a"}}}
	rules := []mapping.AttributeMapping{
		{SourceAttribute: "meta", TargetAttribute: "meta"},
		{SourceAttribute: "meta", TargetPath: "meta.extra"},
	}

	dst := Entity{}
	ApplyAttributes(src, rules, dst)

	meta := dst["meta"].(map[string]any)
	meta["tags"].([]any)[0] = "changed"

	assert.Equal(t, SourceEntity{"meta": map[string]any{"tags": []any{"a"}}}, src)
}

func TestApplyAttributes_DoesNotAliasStaticValue(t *testing.T) {
	rules := []mapping.AttributeMapping{{
		SourceAttribute: "x",
		Rule:            mapping.RuleStaticValue,
		StaticValue:     map[string]any{"k": "v"},
		TargetAttribute: "x",
	}}

	first, second := Entity{}, Entity{}
	ApplyAttributes(SourceEntity{"x": 1}, rules, first)
	ApplyAttributes(SourceEntity{"x": 2}, rules, second)

	first["x"].(map[string]any)["k"] = "changed"
	assert.Equal(t, map[string]any{"k": "v"}, second["x"])
	assert.Equal(t, map[string]any{"k": "v"}, rules[0].StaticValue)
}
