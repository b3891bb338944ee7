// Package youtube scrapes the video platform's search results page for the
// inline JSON state it renders from. The first hit serves two jobs: a
// disambiguation aid (the channel name is a low-confidence artist guess) and
// a coarse popularity proxy (the view count).
package youtube

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/request"
)

var (
	searchURL = "https://www.youtube.com/results?search_query=%s"
	watchURL  = "https://www.youtube.com/watch?v=%s"
)

// Auto-generated music channels are named "<artist> - Topic".
const topicSuffix = "- Topic"

var initialDataRE = regexp.MustCompile(`(?s)var ytInitialData\s*=\s*(\{.+?\});`)

// A Video is the first result of a search.
type Video struct {
	ID      string
	Title   string
	Channel string
	Views   int64
}

// Search scrapes the results page for the query's first video. An empty
// result set is a valid terminal state: (nil, nil).
func Search(ctx context.Context, query string) (*Video, error) {
	resp, err := request.Get(ctx, fmt.Sprintf(searchURL, url.QueryEscape(query)))
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}

	m := initialDataRE.FindSubmatch(body)
	if m == nil {
		return nil, nil
	}

	return firstVideo(m[1]), nil
}

// firstVideo walks the inline JSON down to the first videoRenderer.
func firstVideo(initialData []byte) *Video {
	sections := jsoniter.Get(initialData,
		"contents", "twoColumnSearchResultsRenderer", "primaryContents",
		"sectionListRenderer", "contents")

	for i := 0; i < sections.Size(); i++ {
		items := sections.Get(i, "itemSectionRenderer", "contents")
		for j := 0; j < items.Size(); j++ {
			renderer := items.Get(j, "videoRenderer")
			id := renderer.Get("videoId").ToString()
			if id == "" {
				continue
			}
			return &Video{
				ID:      id,
				Title:   renderer.Get("title", "runs", 0, "text").ToString(),
				Channel: renderer.Get("ownerText", "runs", 0, "text").ToString(),
				Views:   ParseViews(renderer.Get("viewCountText", "simpleText").ToString()),
			}
		}
	}
	return nil
}

// ChannelArtist turns a channel name into an artist guess by dropping the
// auto-generated topic suffix.
func ChannelArtist(channel string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(channel), topicSuffix))
}

// ParseViews turns "1,234,567 views" into a number.
func ParseViews(s string) int64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "views"))
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

var (
	commentAuthorRE = regexp.MustCompile(`"authorText":\{"simpleText":"((?:[^"\\]|\\.)*)"\}`)
	commentTextRE   = regexp.MustCompile(`"contentText":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)
	commentAvatarRE = regexp.MustCompile(`"authorThumbnail":\{"thumbnails":\[\{"url":"((?:[^"\\]|\\.)*)"`)
)

// Comments scrapes whatever comment snapshot the watch page happens to
// inline. Most page loads inline none; that's fine, the result is a
// point-in-time snapshot, not history. Spam filtering happens downstream at
// ingestion.
func Comments(ctx context.Context, videoID string) ([]data.Comment, error) {
	resp, err := request.Get(ctx, fmt.Sprintf(watchURL, url.QueryEscape(videoID)))
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}

	authors := commentAuthorRE.FindAllSubmatch(body, -1)
	texts := commentTextRE.FindAllSubmatch(body, -1)
	avatars := commentAvatarRE.FindAllSubmatch(body, -1)

	n := len(authors)
	if len(texts) < n {
		n = len(texts)
	}

	var comments []data.Comment
	for i := 0; i < n; i++ {
		comment := data.Comment{
			Author: unescape(string(authors[i][1])),
			Text:   unescape(string(texts[i][1])),
		}
		if i < len(avatars) {
			comment.AvatarPath.String = unescape(string(avatars[i][1]))
			comment.AvatarPath.Valid = comment.AvatarPath.String != ""
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func unescape(s string) string {
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}
