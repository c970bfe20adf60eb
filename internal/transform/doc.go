// Package transform implements the recursive entity-graph transformer.
//
// A run walks a source record depth-first. At every node it looks up the
// entity mapping registered for the node's source context, builds a target
// Entity tagged with the target context, applies the attribute rules, links
// the entity back to its parent for inverse relationships, recurses into the
// mapped relationships and finally appends the entity to the run's result.
// Children therefore always precede their parent in Result.Entities.
//
// Problems found while walking (unmapped contexts, unresolved relationships,
// non-object children) never abort a run. They are collected as warnings on
// the Result and logged.
package transform
