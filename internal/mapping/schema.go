package mapping

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ContextKey is the reserved target key holding an entity's type tag.
const ContextKey = "_context"

// Specification represents the root of a mapping document.
// It is read-only once loaded.
type Specification struct {
	// MappingID names the mapping document.
	MappingID string `yaml:"mapping_id,omitempty"`

	// SourceModel names the logical model source entities conform to.
	SourceModel string `yaml:"source_model,omitempty"`

	// TargetModel names the logical model target entities conform to.
	TargetModel string `yaml:"target_model,omitempty"`

	// RelationshipContexts maps a source relationship name to the source
	// context of the entities it holds. Consulted when a relationship
	// mapping has no explicit TargetContext.
	RelationshipContexts map[string]string `yaml:"relationship_contexts,omitempty"`

	// EntityMappings is the ordered list of per-context mapping rules.
	EntityMappings []EntityMapping `yaml:"entity_mappings"`
}

// Selector identifies an entity by its context (type identifier).
type Selector struct {
	Context string `yaml:"context"`
}

// EntityMapping defines how one source context maps to one target context.
type EntityMapping struct {
	SourceSelector Selector `yaml:"source_selector"`
	TargetSelector Selector `yaml:"target_selector"`

	// Description is an optional human-readable note.
	Description string `yaml:"description,omitempty"`

	// AttributeMappings are applied in list order; later writes win.
	AttributeMappings []AttributeMapping `yaml:"attribute_mappings,omitempty"`

	// RelationshipMappings are followed in list order.
	RelationshipMappings []RelationshipMapping `yaml:"relationship_mappings,omitempty"`
}

// SourceType returns the source context this mapping applies to.
func (m *EntityMapping) SourceType() string {
	return m.SourceSelector.Context
}

// TargetType returns the context tag written on produced entities.
func (m *EntityMapping) TargetType() string {
	return m.TargetSelector.Context
}

// Rule is an attribute-level transformation rule.
type Rule string

const (
	RuleDirectCopy  Rule = "direct_copy"
	RuleIgnore      Rule = "ignore"
	RuleStaticValue Rule = "static_value"
	RuleMapValues   Rule = "map_values"
)

// IsValid returns true if the rule is recognized. The empty rule is valid
// and means direct_copy.
func (r Rule) IsValid() bool {
	switch r {
	case "", RuleDirectCopy, RuleIgnore, RuleStaticValue, RuleMapValues:
		return true
	default:
		return false
	}
}

// NormalForm selects Unicode normalization applied to string values before
// value_map lookup.
type NormalForm string

const (
	NormalNone NormalForm = ""
	NormalNFC  NormalForm = "nfc"
	NormalNFKC NormalForm = "nfkc"
)

// IsValid returns true if the form is recognized.
func (f NormalForm) IsValid() bool {
	return f == NormalNone || f == NormalNFC || f == NormalNFKC
}

// Apply normalizes s according to the form.
func (f NormalForm) Apply(s string) string {
	switch f {
	case NormalNFC:
		return norm.NFC.String(s)
	case NormalNFKC:
		return norm.NFKC.String(s)
	default:
		return s
	}
}

// AttributeMapping defines how a single source attribute is carried into
// the target entity.
type AttributeMapping struct {
	// SourceAttribute is the key read from the source entity. When the key
	// is absent the mapping is skipped, whatever its rule.
	SourceAttribute string `yaml:"source_attribute"`

	// Rule selects the transformation. Empty means direct_copy.
	Rule Rule `yaml:"rule,omitempty"`

	// StaticValue is written instead of the source value for static_value.
	StaticValue any `yaml:"static_value,omitempty"`

	// ValueMap substitutes source values for map_values.
	ValueMap ValueMap `yaml:"value_map,omitempty"`

	// Normalize applies Unicode normalization before value_map lookup.
	Normalize NormalForm `yaml:"normalize,omitempty"`

	// TargetAttribute is a flat target key.
	TargetAttribute string `yaml:"target_attribute,omitempty"`

	// TargetPath is a dotted target path (e.g. "has_access_right.access_type").
	TargetPath string `yaml:"target_path,omitempty"`

	// Description is an optional human-readable note.
	Description string `yaml:"description,omitempty"`
}

// EffectiveRule returns the rule with the direct_copy default applied.
func (a *AttributeMapping) EffectiveRule() Rule {
	if a.Rule == "" {
		return RuleDirectCopy
	}

	return a.Rule
}

// HasTargetPath reports whether the dotted target locator is set.
func (a *AttributeMapping) HasTargetPath() bool {
	return a.TargetPath != ""
}

// HasTargetAttribute reports whether the flat target locator is set.
func (a *AttributeMapping) HasTargetAttribute() bool {
	return a.TargetAttribute != ""
}

// TargetSegments returns the keys to walk in the target entity. A flat
// target attribute is a single segment even if it contains dots.
func (a *AttributeMapping) TargetSegments() []string {
	if a.HasTargetPath() {
		return strings.Split(a.TargetPath, pathSeparator)
	}

	if a.HasTargetAttribute() {
		return []string{a.TargetAttribute}
	}

	return nil
}

// Locator returns a printable form of the target locator.
func (a *AttributeMapping) Locator() string {
	if a.HasTargetPath() {
		return a.TargetPath
	}

	return a.TargetAttribute
}

// Direction controls inverse linking for a relationship.
type Direction string

const (
	DirectionForward Direction = "forward"
	DirectionInverse Direction = "inverse"
)

// IsValid returns true if the direction is recognized. The empty direction
// is valid and means forward.
func (d Direction) IsValid() bool {
	return d == "" || d == DirectionForward || d == DirectionInverse
}

// RelationshipMapping defines how child entities under a source relationship
// are transformed and linked.
type RelationshipMapping struct {
	// SourceRelationship is the key holding one child or a list of children.
	SourceRelationship string `yaml:"source_relationship"`

	// TargetRelationship is the key written on each produced child when the
	// direction is inverse.
	TargetRelationship string `yaml:"target_relationship,omitempty"`

	// Direction is forward (default) or inverse.
	Direction Direction `yaml:"direction,omitempty"`

	// TargetContext optionally names the source context of the children.
	TargetContext string `yaml:"target_context,omitempty"`

	// Description is an optional human-readable note.
	Description string `yaml:"description,omitempty"`
}

// EffectiveDirection returns the direction with the forward default applied.
func (r *RelationshipMapping) EffectiveDirection() Direction {
	if r.Direction == "" {
		return DirectionForward
	}

	return r.Direction
}

// IsInverse reports whether produced children link back to their parent.
func (r *RelationshipMapping) IsInverse() bool {
	return r.EffectiveDirection() == DirectionInverse
}
