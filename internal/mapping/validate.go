package mapping

import (
	"fmt"

	"model-mapper/internal/diagnostic"
)

// Diagnostic codes emitted by Validate.
const (
	CodeSpecIsNil                  = "spec_is_nil"
	CodeNoEntityMappings           = "no_entity_mappings"
	CodeMissingSourceContext       = "missing_source_context"
	CodeMissingTargetContext       = "missing_target_context"
	CodeDuplicateSourceContext     = "duplicate_source_context"
	CodeMissingSourceAttribute     = "missing_source_attribute"
	CodeInvalidRule                = "invalid_rule"
	CodeConflictingTargetLocators  = "conflicting_target_locators"
	CodeMissingTargetLocator       = "missing_target_locator"
	CodeInvalidTargetPath          = "invalid_target_path"
	CodeInvalidNormalize           = "invalid_normalize"
	CodeStaticValueMissing         = "static_value_missing"
	CodeEmptyValueMap              = "empty_value_map"
	CodeUnusedOption               = "unused_option"
	CodeMissingSourceRelationship  = "missing_source_relationship"
	CodeInvalidDirection           = "invalid_direction"
	CodeMissingTargetRelationship  = "missing_target_relationship"
	CodeUnknownTargetContext       = "unknown_target_context"
	CodeUnknownRelationshipContext = "unknown_relationship_context"
	CodeReservedTargetKey          = "reserved_target_key"
)

// Validate validates a mapping specification structurally. Errors make the
// specification unusable; warnings flag options that will have no effect or
// relationships that will be skipped at run time.
func Validate(spec *Specification) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if spec == nil {
		res.AddError(CodeSpecIsNil, "mapping specification is nil", "", "")
		return res
	}

	if len(spec.EntityMappings) == 0 {
		res.AddWarning(CodeNoEntityMappings, "specification has no entity_mappings", "", "")
	}

	// first index of each source context
	seen := make(map[string]int, len(spec.EntityMappings))

	for i := range spec.EntityMappings {
		em := &spec.EntityMappings[i]
		path := fmt.Sprintf("entity_mappings[%d]", i)

		if em.SourceType() == "" {
			res.AddError(CodeMissingSourceContext, "source_selector.context is required", "", path)
		} else if first, dup := seen[em.SourceType()]; dup {
			cause := &DuplicateMappingError{SourceType: em.SourceType(), First: first, Duplicate: i}
			res.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     CodeDuplicateSourceContext,
				Message:  cause.Error(),
				Context:  em.SourceType(),
				Path:     path,
				Cause:    cause,
			})
		} else {
			seen[em.SourceType()] = i
		}

		if em.TargetType() == "" {
			res.AddError(CodeMissingTargetContext, "target_selector.context is required", em.SourceType(), path)
		}

		for j := range em.AttributeMappings {
			validateAttribute(res, em.SourceType(), fmt.Sprintf("%s.attribute_mappings[%d]", path, j),
				&em.AttributeMappings[j])
		}

		for j := range em.RelationshipMappings {
			validateRelationship(res, em.SourceType(), fmt.Sprintf("%s.relationship_mappings[%d]", path, j),
				&em.RelationshipMappings[j])
		}
	}

	// Relationship target contexts may refer to mappings declared later.
	checkRelationshipContexts(res, spec, seen)

	return res
}

// validateAttribute validates a single attribute mapping.
func validateAttribute(res *diagnostic.Diagnostics, ctx, path string, am *AttributeMapping) {
	if am.SourceAttribute == "" {
		res.AddError(CodeMissingSourceAttribute, "source_attribute is required", ctx, path)
	}

	if !am.Rule.IsValid() {
		res.AddError(CodeInvalidRule,
			fmt.Sprintf("unknown rule %q (expected direct_copy, ignore, static_value or map_values)", am.Rule),
			ctx, path)

		return
	}

	validateLocator(res, ctx, path, am)
	validateRuleOptions(res, ctx, path, am)
}

// validateRelationship validates a single relationship mapping. Target
// context references are resolved later by checkRelationshipContexts.
func validateRelationship(res *diagnostic.Diagnostics, ctx, path string, rm *RelationshipMapping) {
	if rm.SourceRelationship == "" {
		res.AddError(CodeMissingSourceRelationship, "source_relationship is required", ctx, path)
	}

	if !rm.Direction.IsValid() {
		res.AddError(CodeInvalidDirection,
			fmt.Sprintf("unknown direction %q (expected forward or inverse)", rm.Direction), ctx, path)

		return
	}

	if rm.IsInverse() && rm.TargetRelationship == "" {
		res.AddError(CodeMissingTargetRelationship,
			"inverse relationship requires target_relationship", ctx, path)
	}

	if rm.IsInverse() && rm.TargetRelationship == ContextKey {
		res.AddError(CodeReservedTargetKey,
			fmt.Sprintf("%s is reserved for the entity type tag", ContextKey), ctx, path)
	}
}
