package mapping

import (
	"fmt"
	"sort"

	"model-mapper/internal/diagnostic"
)

// validateLocator enforces exactly one target locator. Ignore rules never
// write, so they may omit both.
func validateLocator(res *diagnostic.Diagnostics, ctx, path string, am *AttributeMapping) {
	hasAttr := am.HasTargetAttribute()
	hasPath := am.HasTargetPath()

	switch {
	case hasAttr && hasPath:
		cause := &LocatorError{SourceType: ctx, SourceAttribute: am.SourceAttribute, Both: true}
		res.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     CodeConflictingTargetLocators,
			Message:  "target_attribute and target_path are mutually exclusive",
			Context:  ctx,
			Path:     path,
			Cause:    cause,
		})
	case !hasAttr && !hasPath:
		if am.EffectiveRule() == RuleIgnore {
			return
		}

		cause := &LocatorError{SourceType: ctx, SourceAttribute: am.SourceAttribute}
		res.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     CodeMissingTargetLocator,
			Message:  "one of target_attribute or target_path is required",
			Context:  ctx,
			Path:     path,
			Cause:    cause,
		})
	case hasPath:
		if _, err := ParsePath(am.TargetPath); err != nil {
			res.AddError(CodeInvalidTargetPath, err.Error(), ctx, path)
			return
		}
	}

	if segs := am.TargetSegments(); len(segs) > 0 && segs[0] == ContextKey {
		res.AddError(CodeReservedTargetKey,
			fmt.Sprintf("%s is reserved for the entity type tag", ContextKey), ctx, path)
	}
}

// validateRuleOptions flags rule options that are missing or have no effect.
func validateRuleOptions(res *diagnostic.Diagnostics, ctx, path string, am *AttributeMapping) {
	if !am.Normalize.IsValid() {
		res.AddError(CodeInvalidNormalize,
			fmt.Sprintf("unknown normalize form %q (expected nfc or nfkc)", am.Normalize), ctx, path)
	}

	rule := am.EffectiveRule()

	switch rule {
	case RuleStaticValue:
		if am.StaticValue == nil {
			res.AddWarning(CodeStaticValueMissing, "static_value rule writes null without static_value", ctx, path)
		}
	case RuleMapValues:
		if am.ValueMap.Len() == 0 {
			res.AddWarning(CodeEmptyValueMap, "map_values rule with empty value_map copies values unchanged", ctx, path)
		}
	}

	if rule != RuleStaticValue && am.StaticValue != nil {
		res.AddWarning(CodeUnusedOption, fmt.Sprintf("static_value has no effect with rule %s", rule), ctx, path)
	}

	if rule != RuleMapValues && am.ValueMap.Len() > 0 {
		res.AddWarning(CodeUnusedOption, fmt.Sprintf("value_map has no effect with rule %s", rule), ctx, path)
	}

	if rule != RuleMapValues && am.Normalize != NormalNone {
		res.AddWarning(CodeUnusedOption, fmt.Sprintf("normalize has no effect with rule %s", rule), ctx, path)
	}
}

// checkRelationshipContexts warns about child contexts no entity mapping
// covers; such children are skipped as unmapped at run time.
func checkRelationshipContexts(res *diagnostic.Diagnostics, spec *Specification, known map[string]int) {
	for i := range spec.EntityMappings {
		em := &spec.EntityMappings[i]

		for j := range em.RelationshipMappings {
			rm := &em.RelationshipMappings[j]
			if rm.TargetContext == "" {
				continue
			}

			if _, ok := known[rm.TargetContext]; !ok {
				res.AddWarning(CodeUnknownTargetContext,
					fmt.Sprintf("target_context %q has no entity mapping", rm.TargetContext),
					em.SourceType(), fmt.Sprintf("entity_mappings[%d].relationship_mappings[%d]", i, j))
			}
		}
	}

	names := make([]string, 0, len(spec.RelationshipContexts))
	for name := range spec.RelationshipContexts {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		ctx := spec.RelationshipContexts[name]
		if _, ok := known[ctx]; !ok {
			res.AddWarning(CodeUnknownRelationshipContext,
				fmt.Sprintf("relationship %q resolves to %q which has no entity mapping", name, ctx),
				"", "relationship_contexts."+name)
		}
	}
}
