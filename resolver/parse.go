// Package resolver orchestrates metadata resolution: it disambiguates
// title/artist pairs, runs the adapter waterfalls, and persists the outcome
// through the reconciling store.
package resolver

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// Separators that commonly split "artist - title" strings, tried in order.
// The double hyphen goes first so " - " doesn't split it in the middle.
var separators = []string{" -- ", " - ", " – ", " — ", " by "}

// SplitSeparator splits a raw title on the first recognized separator,
// returning both halves trimmed. ok is false when no separator occurs.
func SplitSeparator(raw string) (first, second string, ok bool) {
	for _, sep := range separators {
		if i := strings.Index(raw, sep); i >= 0 {
			first = strings.TrimSpace(raw[:i])
			second = strings.TrimSpace(raw[i+len(sep):])
			if first != "" && second != "" {
				return first, second, true
			}
		}
	}
	return "", "", false
}

// IsGenericArtist reports whether an artist value is a placeholder the
// importer writes when it knows nothing.
func IsGenericArtist(artist string) bool {
	switch strings.ToLower(strings.TrimSpace(artist)) {
	case "", "unknown artist", "various artists":
		return true
	}
	return false
}

// IsPlaceholderTitle reports whether a title is effectively absent.
func IsPlaceholderTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return true
	}
	return strings.Contains(t, "untitled") || strings.Contains(t, "unknown")
}

// NonASCII reports whether s contains any rune outside ASCII.
func NonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

// TitleFromURI derives a candidate title from the source file's name:
// percent-decoded, extension stripped, every non-alphanumeric run collapsed
// to a single space.
func TitleFromURI(uri string) string {
	name := path.Base(uri)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.TrimSuffix(name, path.Ext(name))

	var b strings.Builder
	pendingSpace := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}
