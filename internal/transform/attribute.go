package transform

import (
	"model-mapper/internal/mapping"
)

// ApplyAttributes writes the attribute rules for one source entity into dst,
// in list order. A rule whose source attribute is absent is skipped whatever
// its kind; later writes to the same location win.
func ApplyAttributes(src SourceEntity, rules []mapping.AttributeMapping, dst Entity) {
	for i := range rules {
		rule := &rules[i]

		raw, ok := src[rule.SourceAttribute]
		if !ok {
			continue
		}

		value, write := resolveValue(rule, raw)
		if !write {
			continue
		}

		writeValue(dst, rule.TargetSegments(), value)
	}
}

func resolveValue(rule *mapping.AttributeMapping, raw any) (any, bool) {
	switch rule.EffectiveRule() {
	case mapping.RuleIgnore:
		return nil, false
	case mapping.RuleStaticValue:
		return cloneValue(rule.StaticValue), true
	case mapping.RuleMapValues:
		if mapped, ok := rule.ValueMap.Lookup(raw, rule.Normalize); ok {
			return cloneValue(mapped), true
		}

		return cloneValue(raw), true
	default:
		return cloneValue(raw), true
	}
}

// writeValue sets value at segments, creating missing intermediate
// containers. An intermediate that is not a container (including a
// back-reference) is replaced by a fresh one.
func writeValue(dst Entity, segments []string, value any) {
	if len(segments) == 0 {
		return
	}

	container := map[string]any(dst)

	for _, seg := range segments[:len(segments)-1] {
		next, ok := container[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			container[seg] = next
		}

		container = next
	}

	container[segments[len(segments)-1]] = value
}
