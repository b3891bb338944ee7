// Package soundcloud scrapes follower counts from profile pages, the
// fallback listener-count source.
package soundcloud

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tanosshi/inami/bandcamp"
	"github.com/tanosshi/inami/request"
)

var profileURL = "https://soundcloud.com/%s"

// Profile pages embed their stats in a meta tag like
// soundcloud://users:123?followers=4567 and in hydration JSON as
// "followers_count":4567. Either form will do.
var followersRE = regexp.MustCompile(`"followers_count":\s*([0-9]+)|followers=([0-9]+)`)

// Followers scrapes the follower count for an artist name. Zero means
// absent; transport failure also reads as absence.
func Followers(ctx context.Context, name string) (int64, error) {
	s := bandcamp.Slug(name)
	if s == "" {
		return 0, nil
	}
	return FollowersFromURL(ctx, fmt.Sprintf(profileURL, s))
}

// FollowersFromURL scrapes a known profile URL, for the relations fallback.
func FollowersFromURL(ctx context.Context, url string) (int64, error) {
	doc, err := request.FetchHTML(ctx, url)
	if err != nil {
		return 0, nil
	}

	html, err := doc.Html()
	if err != nil {
		return 0, nil
	}

	m := followersRE.FindStringSubmatch(html)
	if m == nil {
		return 0, nil
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
