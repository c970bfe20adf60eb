// Package diagnostic provides structured errors, warnings and infos shared by
// mapping validation and entity transformation runs.
//
// Key capabilities:
//   - Configuration errors detected before a run (duplicate contexts, bad locators)
//   - Recoverable run warnings (unmapped entities, unresolved relationships)
//   - Suggestions attached to a diagnostic (e.g. closest known context)
package diagnostic
