// Package match provides identifier normalization, Levenshtein distance and
// "did you mean" ranking for context identifiers.
//
// Key functions:
//   - NormalizeIdent: folds an identifier or context URI for fuzzy matching
//   - Levenshtein: computes the rune edit distance between strings
//   - Suggest: ranks known contexts against an unknown one
package match
