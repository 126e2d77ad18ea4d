// Package suggest ranks correction candidates for failed selector
// queries by Levenshtein edit distance.
package suggest

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Defaults for Rank. Callers pass 0 (or a ratio <= 0) to accept them.
const (
	DefaultMaxResults = 5
	DefaultMinRatio   = 0.4
)

// Reason tags attached to suggestions.
const (
	ReasonExact = "exact_match"
	ReasonTypo  = "typo_correction" // distance <= 2
	ReasonFuzzy = "fuzzy_match"
)

// Suggestion is one ranked correction candidate.
type Suggestion struct {
	Selector string  `json:"selector"`
	Distance int     `json:"distance"`
	Ratio    float64 `json:"ratio"`
	Reason   string  `json:"reason"`
}

// Rank scores every candidate against the query with unit-cost
// insertions, deletions, and substitutions (computed by a rolling-row
// dynamic program, O(m*n) time and O(min(m,n)) space), keeps those whose
// similarity ratio (maxLen-distance)/maxLen clears minRatio, and returns
// them sorted by ratio descending, distance ascending, then candidate
// length ascending, truncated to maxResults. Both query and candidates
// are compared lower-cased and trimmed.
func Rank(query string, candidates []string, maxResults int, minRatio float64) []Suggestion {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if minRatio <= 0 {
		minRatio = DefaultMinRatio
	}

	q := normalize(query)
	out := make([]Suggestion, 0, len(candidates))
	for _, cand := range candidates {
		c := normalize(cand)
		dist := levenshtein.Distance(q, c, nil)
		ratio := similarity(len([]rune(q)), len([]rune(c)), dist)
		if ratio < minRatio {
			continue
		}
		out = append(out, Suggestion{
			Selector: cand,
			Distance: dist,
			Ratio:    ratio,
			Reason:   reasonFor(dist),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ratio != out[j].Ratio {
			return out[i].Ratio > out[j].Ratio
		}
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return len(out[i].Selector) < len(out[j].Selector)
	})
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// Distance exposes the unit-cost edit distance used by Rank, without
// normalization.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// similarity is (maxLen-distance)/maxLen: 1.0 for an exact match, 0 for
// completely dissimilar strings of the same length. Two empty strings
// are an exact match.
func similarity(lenA, lenB, dist int) float64 {
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-dist) / float64(maxLen)
}

func reasonFor(dist int) string {
	switch {
	case dist == 0:
		return ReasonExact
	case dist <= 2:
		return ReasonTypo
	default:
		return ReasonFuzzy
	}
}
