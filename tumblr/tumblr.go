// Package tumblr resolves artist avatars through the blog avatar API, the
// secondary image source.
package tumblr

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/request"
)

var avatarURL = "https://api.tumblr.com/v2/blog/%s.tumblr.com/avatar/512"

// The API answers every name, real blog or not; a miss redirects to the stock
// avatar.
const defaultAvatarMarker = "default_avatar"

// Blog names that exist but never belong to the artist being looked up.
var falsePositiveSubstrings = []string{"official", "music", "band", "the"}

// Image resolves an avatar candidate for the artist name. Short names and
// names built from high-false-positive words are rejected before any request
// goes out.
func Image(ctx context.Context, name string) data.Candidate {
	cand := data.Candidate{Source: "tumblr", Invoked: data.Lookup{Name: name}}

	s := Slug(name)
	if len(s) <= 3 {
		return cand
	}
	for _, sub := range falsePositiveSubstrings {
		if s == sub || strings.HasPrefix(s, sub+"-") || strings.HasSuffix(s, "-"+sub) {
			return cand
		}
	}

	cand.URL = avatarFrom(ctx, fmt.Sprintf(avatarURL, s))
	return cand
}

// ImageFromURL resolves an avatar for a known blog URL recovered from the
// music graph's external links.
func ImageFromURL(ctx context.Context, name, blogURL string) data.Candidate {
	cand := data.Candidate{Source: "tumblr", Invoked: data.Lookup{Name: name}}

	blog := strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(blogURL, "https://"), "http://"), "/")
	blog = strings.TrimSuffix(blog, ".tumblr.com")
	if blog == "" {
		return cand
	}

	cand.URL = avatarFrom(ctx, fmt.Sprintf(avatarURL, blog))
	return cand
}

func avatarFrom(ctx context.Context, url string) string {
	resp, err := request.Get(ctx, url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if err := request.Error(resp); err != nil {
		return ""
	}

	// The client follows the redirect chain; what matters is where it
	// ended up.
	final := resp.Request.URL.String()
	if strings.Contains(final, defaultAvatarMarker) {
		return ""
	}
	return final
}

// Slug normalizes an artist name into a blog-name guess. Blog names keep
// their hyphens, unlike storefront subdomains.
func Slug(name string) string {
	return slug.Make(name)
}
