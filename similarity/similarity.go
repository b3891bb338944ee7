// Package similarity scores how alike two strings are, for every confidence
// decision the resolver makes.
package similarity

import "github.com/agnivade/levenshtein"

// Ratio returns a normalized edit-distance ratio in [0, 1]: 1 for identical
// strings (including two empty ones), 0 for strings with nothing in common.
// Callers pre-normalize case and script; no locale handling happens here.
func Ratio(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}
