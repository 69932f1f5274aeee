package dataset

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance keeps suggestions honest: anything further away than
// this is noise, not a typo.
const maxSuggestDistance = 3

// ClosestColumn returns the column name nearest to the requested one by edit
// distance, or "" when nothing is close enough to be a plausible typo.
func ClosestColumn(requested string, columns []string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested == "" {
		return ""
	}

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, col := range columns {
		d := levenshtein.ComputeDistance(requested, strings.ToLower(strings.TrimSpace(col)))
		if d < bestDistance {
			bestDistance = d
			best = col
		}
	}
	if bestDistance > maxSuggestDistance {
		return ""
	}
	return best
}
