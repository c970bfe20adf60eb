package mapping

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ValueEntry is one substitution of a value map, in document order.
type ValueEntry struct {
	From any
	To   any
}

// ValueMap substitutes scalar source values. Keys match by value, not by Go
// type: the integer 1 read from YAML matches the float 1 read from JSON.
type ValueMap struct {
	entries []ValueEntry
	index   map[scalarKey]int
}

// NewValueMap builds a value map from entries in order. A non-scalar key or
// a key equal to an earlier one is an error.
func NewValueMap(entries ...ValueEntry) (ValueMap, error) {
	var m ValueMap
	for _, e := range entries {
		if err := m.set(e.From, e.To); err != nil {
			if errors.Is(err, errDuplicateValueKey) {
				return ValueMap{}, fmt.Errorf("%w %s", err, formatScalar(e.From))
			}

			return ValueMap{}, err
		}
	}

	return m, nil
}

// MustValueMap is like NewValueMap but panics on error.
func MustValueMap(entries ...ValueEntry) ValueMap {
	m, err := NewValueMap(entries...)
	if err != nil {
		panic(err)
	}

	return m
}

func (m *ValueMap) set(from, to any) error {
	key, ok := keyOf(from, NormalNone)
	if !ok {
		return fmt.Errorf("value_map key %v (%T) is not a scalar", from, from)
	}

	if m.index == nil {
		m.index = make(map[scalarKey]int)
	}

	if i, exists := m.index[key]; exists {
		m.entries[i].To = to
		return errDuplicateValueKey
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, ValueEntry{From: from, To: to})

	return nil
}

// Len returns the number of substitutions.
func (m ValueMap) Len() int {
	return len(m.entries)
}

// IsZero reports whether the map is empty. It lets yaml omitempty drop it.
func (m ValueMap) IsZero() bool {
	return len(m.entries) == 0
}

// Entries returns the substitutions in document order.
func (m ValueMap) Entries() []ValueEntry {
	out := make([]ValueEntry, len(m.entries))
	copy(out, m.entries)

	return out
}

// Lookup returns the replacement for v. String values and string keys are
// normalized with form before comparison.
func (m ValueMap) Lookup(v any, form NormalForm) (any, bool) {
	key, ok := keyOf(v, form)
	if !ok {
		return nil, false
	}

	if form == NormalNone {
		i, found := m.index[key]
		if !found {
			return nil, false
		}

		return m.entries[i].To, true
	}

	for _, e := range m.entries {
		if k, ok := keyOf(e.From, form); ok && k == key {
			return e.To, true
		}
	}

	return nil, false
}

type scalarKind uint8

const (
	kindNull scalarKind = iota + 1
	kindString
	kindInt
	kindUint
	kindFloat
	kindBool
)

// scalarKey is the comparable form of a scalar. Integral numbers always land
// on kindInt (or kindUint above MaxInt64) so 1 and 1.0 compare equal while
// large integers keep every bit.
type scalarKey struct {
	kind scalarKind
	s    string
	i    int64
	u    uint64
	f    float64
	b    bool
}

type int64er interface {
	Int64() (int64, error)
}

type float64er interface {
	Float64() (float64, error)
}

// keyOf maps a scalar to a comparable key. Maps, slices and other
// composite values have no key.
func keyOf(v any, form NormalForm) (scalarKey, bool) {
	switch x := v.(type) {
	case nil:
		return scalarKey{kind: kindNull}, true
	case string:
		return scalarKey{kind: kindString, s: form.Apply(x)}, true
	case bool:
		return scalarKey{kind: kindBool, b: x}, true
	case int:
		return intKey(int64(x)), true
	case int8:
		return intKey(int64(x)), true
	case int16:
		return intKey(int64(x)), true
	case int32:
		return intKey(int64(x)), true
	case int64:
		return intKey(x), true
	case uint:
		return uintKey(uint64(x)), true
	case uint8:
		return uintKey(uint64(x)), true
	case uint16:
		return uintKey(uint64(x)), true
	case uint32:
		return uintKey(uint64(x)), true
	case uint64:
		return uintKey(x), true
	case float32:
		return floatKey(float64(x))
	case float64:
		return floatKey(x)
	case float64er:
		if n, ok := x.(int64er); ok {
			if i, err := n.Int64(); err == nil {
				return intKey(i), true
			}
		}

		f, err := x.Float64()
		if err != nil {
			return scalarKey{}, false
		}

		return floatKey(f)
	default:
		return scalarKey{}, false
	}
}

func intKey(i int64) scalarKey {
	return scalarKey{kind: kindInt, i: i}
}

func uintKey(u uint64) scalarKey {
	if u <= math.MaxInt64 {
		return intKey(int64(u))
	}

	return scalarKey{kind: kindUint, u: u}
}

func floatKey(f float64) (scalarKey, bool) {
	switch {
	case math.IsNaN(f):
		return scalarKey{}, false
	case f != math.Trunc(f) || math.IsInf(f, 0):
		return scalarKey{kind: kindFloat, f: f}, true
	case f >= -(1<<63) && f < 1<<63:
		return intKey(int64(f)), true
	case f >= 0 && f < 1<<64:
		return uintKey(uint64(f)), true
	default:
		return scalarKey{kind: kindFloat, f: f}, true
	}
}

// formatScalar renders a scalar for diagnostics.
func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprint(x)
	}
}
