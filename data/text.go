package data

import (
	"strings"
	"unicode"
)

// Corrupt reports whether a field that should be ASCII-safe display text
// looks mangled: non-ASCII runes from a bad encoding or underscores left
// over from a filename. Corrupt values may be replaced by a fresh lookup
// even though populated fields are otherwise never overwritten.
func Corrupt(s string) bool {
	if strings.Contains(s, "_") {
		return true
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}
