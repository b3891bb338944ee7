// Package lastfm pulls community genre tags through the Last.fm API and
// scrapes listener counts from the artist page.
package lastfm

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	lastfmgo "github.com/shkh/lastfm-go/lastfm"

	"github.com/tanosshi/inami/request"
)

var pageURL = "https://www.last.fm/music/%s"

// The maximum number of tags worth keeping; the community tail gets noisy
// fast.
const maxTags = 5

// Community members sometimes leave behind tags from API experiments; they
// match this shape and carry no signal.
var testDataTag = regexp.MustCompile(`(?i)^(my ?tag|te?st( ?data)?)[0-9]*$`)

type Client struct {
	api *lastfmgo.Api
}

// New builds a client from an API key. Secret is not needed for read-only
// calls.
func New(apiKey string) *Client {
	return &Client{api: lastfmgo.New(apiKey, "")}
}

// TopTags fetches the top community tags for an artist, retrying once with
// the fallback name when the first answer is empty. Junk tags are dropped and
// the list is capped. Failure or absence is nil; tags are never a hard
// requirement.
func (c *Client) TopTags(artist, fallback string) []string {
	tags := c.topTags(artist)
	if len(tags) == 0 && fallback != "" && fallback != artist {
		tags = c.topTags(fallback)
	}
	return tags
}

func (c *Client) topTags(artist string) []string {
	if c == nil || c.api == nil || artist == "" {
		return nil
	}

	result, err := c.api.Artist.GetTopTags(lastfmgo.P{"artist": artist})
	if err != nil {
		return nil
	}

	var tags []string
	for _, tag := range result.Tags {
		if testDataTag.MatchString(tag.Name) {
			continue
		}
		tags = append(tags, strings.ToLower(tag.Name))
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// ArtistInfo fetches the short and long bio text for an artist. Failure or
// absence is two empty strings; bios are a best-effort enrichment.
func (c *Client) ArtistInfo(artist string) (short, long string) {
	if c == nil || c.api == nil || artist == "" {
		return "", ""
	}

	info, err := c.api.Artist.GetInfo(lastfmgo.P{"artist": artist})
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(info.Bio.Summary), strings.TrimSpace(info.Bio.Content)
}

// Listeners scrapes the listener count from the artist page. (0, nil) means
// the page had no count; transport failure also reads as absence, since this
// is a best-effort popularity signal.
func Listeners(ctx context.Context, artist string) (int64, error) {
	doc, err := request.FetchHTML(ctx, fmt.Sprintf(pageURL, url.PathEscape(artist)))
	if err != nil {
		return 0, nil
	}

	var count int64
	doc.Find("abbr.intro_stats, .header-metadata-tnew-display, [class*=listeners]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if n := ParseCount(sel.AttrOr("title", sel.Text())); n > 0 {
			count = n
			return false
		}
		return true
	})
	return count, nil
}

// ParseCount turns a rendered stat like "1,234,567" or "1.2M" into a number.
func ParseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "M"):
		multiplier, s = 1_000_000, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier, s = 1_000, strings.TrimSuffix(s, "K")
	}

	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(n * float64(multiplier))
}
