// Package suggest provides "did you mean" lookups for user-supplied names.
package suggest

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// minScore is the similarity floor below which no suggestion is offered.
const minScore = 0.72

// Closest returns the candidate most similar to got, or "" when nothing
// is close enough to be a plausible typo.
func Closest(got string, candidates []string) string {
	got = strings.ToLower(strings.TrimSpace(got))
	if got == "" {
		return ""
	}

	metric := metrics.NewJaroWinkler()
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := strutil.Similarity(got, strings.ToLower(c), metric)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < minScore {
		return ""
	}
	return best
}
