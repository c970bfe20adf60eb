// Package export turns a transform result into tree-shaped records that can
// be encoded as JSON or persisted.
//
// Produced entities form a graph: an inverse relationship stores the parent
// entity itself inside the child. Export gives every entity an id and
// replaces each such back-reference by a Ref carrying that id.
package export

import (
	"io"
	"reflect"
	"unsafe"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"model-mapper/internal/transform"
)

// RefKey is the key holding the referenced record id in a Ref.
const RefKey = "$ref"

// Record is one exported entity.
type Record struct {
	ID         string         `json:"id"`
	Context    string         `json:"_context"`
	Attributes map[string]any `json:"attributes"`
}

// Ref returns the indirection that stands for r inside another record.
func (r Record) Ref() map[string]any {
	return map[string]any{RefKey: r.ID, transform.ContextKey: r.Context}
}

// IsRef reports whether v is an indirection produced by Export and returns
// the referenced id.
func IsRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 2 {
		return "", false
	}

	id, ok := m[RefKey].(string)
	if !ok {
		return "", false
	}

	_, ok = m[transform.ContextKey]

	return id, ok
}

type options struct {
	newID func() string
}

// Option configures Export.
type Option func(*options)

// WithIDFunc sets the record id generator. The default is a random UUID.
func WithIDFunc(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Export converts entities into records, preserving order. A back-reference
// to an entity missing from entities still gets an id, but no record.
func Export(entities []transform.Entity, opts ...Option) []Record {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	ex := &exporter{ids: make(map[unsafe.Pointer]string, len(entities)), newID: o.newID}

	for _, e := range entities {
		ex.idOf(e)
	}

	records := make([]Record, 0, len(entities))
	for _, e := range entities {
		records = append(records, Record{
			ID:         ex.idOf(e),
			Context:    e.Type(),
			Attributes: ex.attributes(e),
		})
	}

	return records
}

type exporter struct {
	ids   map[unsafe.Pointer]string
	newID func() string
}

func (x *exporter) idOf(e transform.Entity) string {
	key := reflect.ValueOf(e).UnsafePointer()
	if id, ok := x.ids[key]; ok {
		return id
	}

	id := x.newID()
	x.ids[key] = id

	return id
}

func (x *exporter) attributes(e transform.Entity) map[string]any {
	out := make(map[string]any, len(e))

	for k, v := range e {
		if k == transform.ContextKey {
			continue
		}

		out[k] = x.value(v)
	}

	return out
}

func (x *exporter) value(v any) any {
	switch val := v.(type) {
	case transform.Entity:
		return Record{ID: x.idOf(val), Context: val.Type()}.Ref()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = x.value(inner)
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = x.value(inner)
		}

		return out
	default:
		return v
	}
}

// Encode writes records as an indented JSON array.
func Encode(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(records)
}

// Decode reads records written by Encode.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	return records, nil
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Dump writes a debug rendering of the raw entities, back-references
// included.
func Dump(w io.Writer, entities []transform.Entity) {
	dumper.Fdump(w, entities)
}
