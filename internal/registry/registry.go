package registry

import (
	"model-mapper/internal/diagnostic"
	"model-mapper/internal/mapping"
)

// Index maps source contexts to their entity mapping.
type Index struct {
	spec     *mapping.Specification
	bySource map[string]*mapping.EntityMapping
	order    []string
	warnings diagnostic.Diagnostics
}

// Build validates spec and indexes it. Any validation error aborts with a
// *mapping.ConfigurationError; a duplicated source context is reachable
// with errors.As as *mapping.DuplicateMappingError. Validation warnings
// are kept on the index.
func Build(spec *mapping.Specification) (*Index, error) {
	diags := mapping.Validate(spec)
	if diags.HasErrors() {
		return nil, &mapping.ConfigurationError{Diagnostics: diags}
	}

	idx := &Index{
		spec:     spec,
		bySource: make(map[string]*mapping.EntityMapping, len(spec.EntityMappings)),
		order:    make([]string, 0, len(spec.EntityMappings)),
		warnings: diagnostic.Diagnostics{Warnings: diags.Warnings, Infos: diags.Infos},
	}

	for i := range spec.EntityMappings {
		em := &spec.EntityMappings[i]
		idx.bySource[em.SourceType()] = em
		idx.order = append(idx.order, em.SourceType())
	}

	return idx, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// statically known specifications.
func MustBuild(spec *mapping.Specification) *Index {
	idx, err := Build(spec)
	if err != nil {
		panic(err)
	}

	return idx
}

// Lookup returns the entity mapping for a source context.
func (x *Index) Lookup(sourceType string) (*mapping.EntityMapping, bool) {
	em, ok := x.bySource[sourceType]
	return em, ok
}

// SourceTypes returns the indexed source contexts in declaration order.
func (x *Index) SourceTypes() []string {
	out := make([]string, len(x.order))
	copy(out, x.order)

	return out
}

// Len returns the number of indexed entity mappings.
func (x *Index) Len() int {
	return len(x.order)
}

// Specification returns the indexed specification.
func (x *Index) Specification() *mapping.Specification {
	return x.spec
}

// Warnings returns the non-fatal validation findings.
func (x *Index) Warnings() diagnostic.Diagnostics {
	return x.warnings
}
