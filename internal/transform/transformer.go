package transform

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"model-mapper/internal/diagnostic"
	"model-mapper/internal/logging"
	"model-mapper/internal/mapping"
	"model-mapper/internal/match"
	"model-mapper/internal/registry"
)

// Run-time warning codes.
const (
	CodeUnmappedEntity         = "unmapped_entity"
	CodeUnresolvedRelationship = "unresolved_relationship"
	CodeNonEntityChild         = "non_entity_child"
)

// rootLocation is the location hint of the root source entity.
const rootLocation = "$"

// Result is the outcome of one Transform call.
type Result struct {
	// RunID identifies the run in logs and storage.
	RunID string

	// Root is the entity produced for the root, or nil if the root's
	// context has no mapping.
	Root Entity

	// Entities lists every produced entity, children before parents.
	Entities []Entity

	// Diagnostics holds the run-time warnings.
	Diagnostics diagnostic.Diagnostics
}

// ByType returns the produced entities tagged with targetType, in result
// order.
func (r *Result) ByType(targetType string) []Entity {
	var out []Entity

	for _, e := range r.Entities {
		if e.Type() == targetType {
			out = append(out, e)
		}
	}

	return out
}

// Transformer turns source records into target entities. It is immutable
// after New and may be shared between goroutines.
type Transformer struct {
	index       *registry.Index
	resolver    RelationshipResolver
	logger      logging.Logger
	suggestions int
	newRunID    func() string
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithResolver replaces the default relationship resolver.
func WithResolver(r RelationshipResolver) Option {
	return func(t *Transformer) {
		if r != nil {
			t.resolver = r
		}
	}
}

// WithLogger sets the logger run-time warnings are written to.
func WithLogger(l logging.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithSuggestions attaches up to n similar known contexts to every
// unmapped_entity warning.
func WithSuggestions(n int) Option {
	return func(t *Transformer) {
		t.suggestions = n
	}
}

// WithRunIDFunc sets the run identifier generator. The default is a
// random UUID.
func WithRunIDFunc(fn func() string) Option {
	return func(t *Transformer) {
		if fn != nil {
			t.newRunID = fn
		}
	}
}

// New creates a Transformer over a built index. Unless WithResolver is
// given, children contexts are resolved by DefaultResolver.
func New(index *registry.Index, opts ...Option) *Transformer {
	t := &Transformer{
		index:    index,
		resolver: DefaultResolver(index.Specification()),
		logger:   logging.NoOpLogger{},
		newRunID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Transform converts root, whose source context is sourceType, and every
// entity reachable through mapped relationships.
//
// The relationships of the source must form a finite acyclic graph: a
// relationship leading back to an ancestor makes Transform recurse without
// bound. Back-references written for inverse relationships are never
// followed.
//
// Transform never fails. Branches that cannot be mapped are skipped and
// reported in Result.Diagnostics.
func (t *Transformer) Transform(root SourceEntity, sourceType string) *Result {
	r := &run{t: t, id: t.newRunID()}

	t.logger.Debug("transform started", "run_id", r.id, "source_type", sourceType)

	rootEntity := r.visit(root, sourceType, rootLocation, nil, nil)

	res := &Result{
		RunID:       r.id,
		Root:        rootEntity,
		Entities:    r.collector.Snapshot(),
		Diagnostics: r.diags,
	}

	t.logger.Info("transform finished",
		"run_id", r.id,
		"entities", len(res.Entities),
		"warnings", len(res.Diagnostics.Warnings),
	)

	return res
}

// run holds the per-call state of Transform.
type run struct {
	t         *Transformer
	id        string
	collector Collector
	diags     diagnostic.Diagnostics
}

// visit produces the entity for src, or nil when src is skipped.
func (r *run) visit(src SourceEntity, sourceType, loc string, parent Entity, via *mapping.RelationshipMapping) Entity {
	em, ok := r.t.index.Lookup(sourceType)
	if !ok {
		r.warnUnmapped(sourceType, loc)
		return nil
	}

	target := newEntity(em.TargetType())

	ApplyAttributes(src, em.AttributeMappings, target)

	if parent != nil && via != nil && via.IsInverse() {
		target[via.TargetRelationship] = parent
	}

	for i := range em.RelationshipMappings {
		rel := &em.RelationshipMappings[i]
		r.follow(src, sourceType, loc, target, rel)
	}

	r.collector.Append(target)

	return target
}

// follow transforms the children held under one relationship of src.
func (r *run) follow(src SourceEntity, sourceType, loc string, target Entity, rel *mapping.RelationshipMapping) {
	value, ok := src[rel.SourceRelationship]
	if !ok || value == nil {
		return
	}

	relLoc := loc + "." + rel.SourceRelationship

	childType, ok := r.t.resolver.ResolveRelationship(rel.SourceRelationship, rel)
	if !ok {
		r.warn(diagnostic.Diagnostic{
			Code:    CodeUnresolvedRelationship,
			Message: fmt.Sprintf("cannot resolve the context of relationship %q", rel.SourceRelationship),
			Context: sourceType,
			Path:    relLoc,
		})

		return
	}

	items, isList := asSequence(value)

	for i, item := range items {
		childLoc := relLoc
		if isList {
			childLoc += "[" + strconv.Itoa(i) + "]"
		}

		child, ok := asSourceEntity(item)
		if !ok {
			r.warn(diagnostic.Diagnostic{
				Code:    CodeNonEntityChild,
				Message: fmt.Sprintf("relationship %q holds %T, not an object", rel.SourceRelationship, item),
				Context: childType,
				Path:    childLoc,
			})

			continue
		}

		r.visit(child, childType, childLoc, target, rel)
	}
}

func (r *run) warnUnmapped(sourceType, loc string) {
	d := diagnostic.Diagnostic{
		Code:    CodeUnmappedEntity,
		Message: fmt.Sprintf("no entity mapping for context %q", sourceType),
		Context: sourceType,
		Path:    loc,
	}

	if r.t.suggestions > 0 {
		d.Suggestions = match.Suggest(sourceType, r.t.index.SourceTypes(), r.t.suggestions)
	}

	r.warn(d)
}

func (r *run) warn(d diagnostic.Diagnostic) {
	d.Severity = diagnostic.SeverityWarning
	r.diags.Add(d)

	args := []any{"run_id", r.id, "code", d.Code, "context", d.Context, "path", d.Path}
	if len(d.Suggestions) > 0 {
		args = append(args, "suggestions", d.Suggestions)
	}

	r.t.logger.Warn(d.Message, args...)
}
