// Package bandcamp guesses an artist's storefront subdomain from their name
// and pulls the page's social-preview image. It is the primary artist image
// source.
package bandcamp

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/request"
)

var pageURL = "https://%s.bandcamp.com"

// Pages for unclaimed subdomains render a stock camera graphic; its asset
// name marks a miss even though the page itself is a 200.
const placeholderMarker = "bio-placeholder"

// Image resolves an artist image candidate from the storefront page. Two URL
// variants are tried: the plain slug, and the slug with "i" dropped, which
// papers over a common transliteration difference. Short names are rejected
// outright, the false-positive rate on three-letter subdomains being what it
// is.
func Image(ctx context.Context, name string) data.Candidate {
	cand := data.Candidate{Source: "bandcamp", Invoked: data.Lookup{Name: name}}

	s := Slug(name)
	if len(s) <= 3 {
		return cand
	}

	variants := []string{s}
	if dropped := strings.ReplaceAll(s, "i", ""); dropped != s && len(dropped) > 3 {
		variants = append(variants, dropped)
	}

	for _, variant := range variants {
		if url := imageFromPage(ctx, fmt.Sprintf(pageURL, variant)); url != "" {
			cand.URL = url
			return cand
		}
	}
	return cand
}

// ImageFromURL scrapes a known storefront URL, for the relations fallback
// where the subdomain came from the music graph instead of a guess.
func ImageFromURL(ctx context.Context, name, pageURL string) data.Candidate {
	cand := data.Candidate{Source: "bandcamp", Invoked: data.Lookup{Name: name}}
	cand.URL = imageFromPage(ctx, pageURL)
	return cand
}

func imageFromPage(ctx context.Context, url string) string {
	doc, err := request.FetchHTML(ctx, url)
	if err != nil {
		return ""
	}

	if html, err := doc.Html(); err == nil && strings.Contains(html, placeholderMarker) {
		return ""
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	return image
}

// Slug normalizes an artist name into a subdomain guess: diacritics stripped,
// lowercased, everything that isn't a letter or digit removed.
func Slug(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
