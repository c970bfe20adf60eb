package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy matching: CamelCase is split,
// everything is lower-cased and separators are dropped. Context URIs are
// reduced to their local name first, so "http://schema.org/DataSet" and
// "data_set" normalize alike.
func NormalizeIdent(s string) string {
	tokens := TokenizeIdent(LocalName(s))

	return strings.Join(tokens, "")
}

// LocalName returns the part of a context URI after the last '/' or '#'.
// Other strings are returned unchanged.
func LocalName(s string) string {
	trimmed := strings.TrimRight(s, "/#")
	if i := strings.LastIndexAny(trimmed, "/#"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}

// TokenizeIdent splits an identifier into lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits a CamelCase or snake_case string.
// Examples:
//   - "ResearchProject" -> ["Research", "Project"]
//   - "has_datasets" -> ["has", "datasets"]
//   - "XMLSchema" -> ["XML", "Schema"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.', ':', '/', '#':
		return true
	default:
		return false
	}
}

// startsToken reports whether a new token begins at runes[i].
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// lower -> Upper: "orderID" splits before 'I'
	if !unicode.IsUpper(prev) {
		return true
	}

	// end of acronym: "XMLSchema" splits before 'S'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
