package transform

import (
	"maps"

	"model-mapper/internal/mapping"
)

// RelationshipResolver decides the source context of the children held under
// a relationship. It returns false when it cannot tell.
type RelationshipResolver interface {
	ResolveRelationship(name string, rel *mapping.RelationshipMapping) (string, bool)
}

// ResolverFunc adapts a function to RelationshipResolver.
type ResolverFunc func(name string, rel *mapping.RelationshipMapping) (string, bool)

// ResolveRelationship calls f.
func (f ResolverFunc) ResolveRelationship(name string, rel *mapping.RelationshipMapping) (string, bool) {
	return f(name, rel)
}

// ExplicitResolver uses the relationship mapping's own target_context.
type ExplicitResolver struct{}

// ResolveRelationship implements RelationshipResolver.
func (ExplicitResolver) ResolveRelationship(_ string, rel *mapping.RelationshipMapping) (string, bool) {
	if rel == nil || rel.TargetContext == "" {
		return "", false
	}

	return rel.TargetContext, true
}

// TableResolver looks the relationship name up in a fixed table.
type TableResolver map[string]string

// NewTableResolver copies the table so later changes to m are not observed.
func NewTableResolver(m map[string]string) TableResolver {
	return TableResolver(maps.Clone(m))
}

// ResolveRelationship implements RelationshipResolver.
func (t TableResolver) ResolveRelationship(name string, _ *mapping.RelationshipMapping) (string, bool) {
	ctx, ok := t[name]
	if !ok || ctx == "" {
		return "", false
	}

	return ctx, true
}

// ChainResolver asks each resolver in order; the first answer wins.
type ChainResolver []RelationshipResolver

// ResolveRelationship implements RelationshipResolver.
func (c ChainResolver) ResolveRelationship(name string, rel *mapping.RelationshipMapping) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}

		if ctx, ok := r.ResolveRelationship(name, rel); ok {
			return ctx, true
		}
	}

	return "", false
}

// DefaultResolver prefers an explicit target_context, then the
// specification's relationship_contexts table, then each extra table in
// order.
func DefaultResolver(spec *mapping.Specification, extra ...map[string]string) RelationshipResolver {
	chain := ChainResolver{ExplicitResolver{}}

	if spec != nil && len(spec.RelationshipContexts) > 0 {
		chain = append(chain, NewTableResolver(spec.RelationshipContexts))
	}

	for _, table := range extra {
		if len(table) > 0 {
			chain = append(chain, NewTableResolver(table))
		}
	}

	return chain
}
