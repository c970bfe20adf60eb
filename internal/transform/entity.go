package transform

import (
	"reflect"

	"model-mapper/internal/mapping"
)

// ContextKey is the key under which every Entity carries its type tag.
const ContextKey = mapping.ContextKey

// SourceEntity is one node of the input record. The engine only reads it.
type SourceEntity map[string]any

// Entity is one produced target node. Nested path containers inside it are
// plain map[string]any values; a value of type Entity is always a
// back-reference to another produced entity.
type Entity map[string]any

// Type returns the entity's type tag.
func (e Entity) Type() string {
	s, _ := e[ContextKey].(string)
	return s
}

// Ref returns the entity stored under key if it is a back-reference.
func (e Entity) Ref(key string) (Entity, bool) {
	ref, ok := e[key].(Entity)
	return ref, ok
}

// SameEntity reports whether a and b are the same entity, not merely equal.
func SameEntity(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func newEntity(targetType string) Entity {
	return Entity{ContextKey: targetType}
}

// asSourceEntity accepts the object shapes decoders produce.
func asSourceEntity(v any) (SourceEntity, bool) {
	switch x := v.(type) {
	case SourceEntity:
		return x, x != nil
	case map[string]any:
		return SourceEntity(x), x != nil
	default:
		return nil, false
	}
}

// asSequence normalizes a relationship value: a list of any element type
// keeps its order, any other value becomes a one-element list. isList
// reports which case applied.
func asSequence(v any) (items []any, isList bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []SourceEntity:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}

		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}

		return out, true
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return sliceItems(rv), true
	}

	return []any{v}, false
}

func sliceItems(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

// cloneValue deep-copies maps and slices so targets never share storage
// with the source or with the specification. Objects come out as
// map[string]any and lists as []any whatever their source Go type.
func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}

		return out
	case SourceEntity:
		return cloneValue(map[string]any(x))
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneValue(val)
		}

		return out
	case []byte:
		return append([]byte(nil), x...)
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v
		}

		items := sliceItems(rv)
		for i, item := range items {
			items[i] = cloneValue(item)
		}

		return items
	}

	return v
}
