package place

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// AllCategories is the sentinel category that matches every row.
const AllCategories = "All"

// NormalizeTag trims and case-folds a single tag for comparison. Folding is
// full Unicode folding, so "Straße" and "STRASSE" normalise to the same tag.
func NormalizeTag(s string) string {
	// cases.Caser is stateful and must not be shared across goroutines.
	return cases.Fold().String(strings.TrimSpace(s))
}

// SplitTags splits a comma-separated tag string into trimmed, non-empty tags,
// keeping their original casing.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasCategory reports whether the comma-separated tags contain wanted.
// "All" matches everything, including empty tags. Otherwise comparison is
// whitespace- and case-insensitive, and empty tags never match.
func HasCategory(tags, wanted string) bool {
	if wanted == AllCategories {
		return true
	}
	if tags == "" {
		return false
	}
	want := NormalizeTag(wanted)
	for _, t := range strings.Split(tags, ",") {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
