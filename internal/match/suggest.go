package match

import (
	"cmp"
	"slices"

	"model-mapper/internal/common"
)

// DefaultThreshold is the minimum similarity for a suggestion.
const DefaultThreshold = 0.5

// Suggestion is a ranked candidate.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against name and returns those at or above
// threshold, best first. Ties keep candidate order. Exact matches are
// excluded.
func Rank(name string, candidates []string, threshold float64) []Suggestion {
	out := make([]Suggestion, 0, len(candidates))

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := NormalizedSimilarity(name, c)
		if score >= threshold {
			out = append(out, Suggestion{Name: c, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return out
}

// Suggest returns up to n candidate names similar to name, best first.
func Suggest(name string, candidates []string, n int) []string {
	if n <= 0 {
		return nil
	}

	ranked := common.Take(Rank(name, candidates, DefaultThreshold), n)

	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Name
	}

	return names
}
