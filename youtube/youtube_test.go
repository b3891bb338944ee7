package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body><script>
var ytInitialData = {"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[
  {"itemSectionRenderer":{"contents":[
    {"adSlotRenderer":{}},
    {"videoRenderer":{
      "videoId":"abc123",
      "title":{"runs":[{"text":"Artist X - Song Y (Official Video)"}]},
      "ownerText":{"runs":[{"text":"Artist X - Topic"}]},
      "viewCountText":{"simpleText":"12,345,678 views"}}}]}}]}}}}};
</script></body></html>`

func stubSearch(t *testing.T, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	old := searchURL
	searchURL = srv.URL + "/results?search_query=%s"
	t.Cleanup(func() { searchURL = old })
}

func TestSearch(t *testing.T) {
	stubSearch(t, resultsPage)

	video, err := Search(context.Background(), "artist x song y")
	require.NoError(t, err)
	require.NotNil(t, video)
	assert.Equal(t, "abc123", video.ID)
	assert.Equal(t, "Artist X - Song Y (Official Video)", video.Title)
	assert.Equal(t, "Artist X - Topic", video.Channel)
	assert.Equal(t, int64(12345678), video.Views)
}

func TestSearchEmptyResults(t *testing.T) {
	stubSearch(t, `<html><script>var ytInitialData = {"contents":{}};</script></html>`)

	video, err := Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, video)
}

func TestSearchNoInlineState(t *testing.T) {
	stubSearch(t, `<html><body>a page with no state at all</body></html>`)

	video, err := Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, video)
}

func TestChannelArtist(t *testing.T) {
	assert.Equal(t, "Artist X", ChannelArtist("Artist X - Topic"))
	assert.Equal(t, "Some Channel", ChannelArtist("Some Channel"))
	assert.Equal(t, "Artist X", ChannelArtist("  Artist X - Topic  "))
}

func TestParseViews(t *testing.T) {
	assert.Equal(t, int64(12345678), ParseViews("12,345,678 views"))
	assert.Equal(t, int64(42), ParseViews("42 views"))
	assert.Zero(t, ParseViews("No views"))
	assert.Zero(t, ParseViews(""))
}

func TestComments(t *testing.T) {
	page := `<html><script>{"comments":[
		{"commentRenderer":{"authorText":{"simpleText":"alice"},"authorThumbnail":{"thumbnails":[{"url":"https://yt.example/a.jpg"}]},"contentText":{"runs":[{"text":"great song"}]}}},
		{"commentRenderer":{"authorText":{"simpleText":"bob"},"authorThumbnail":{"thumbnails":[{"url":"https://yt.example/b.jpg"}]},"contentText":{"runs":[{"text":"check this out http://spam.example"}]}}}
	]}</script></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()
	old := watchURL
	watchURL = srv.URL + "/watch?v=%s"
	defer func() { watchURL = old }()

	comments, err := Comments(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "alice", comments[0].Author)
	assert.Equal(t, "great song", comments[0].Text)
	assert.Equal(t, "https://yt.example/a.jpg", comments[0].AvatarPath.String)

	// The spammy one still comes back raw; ingestion filtering happens in
	// the persistence layer.
	assert.False(t, comments[1].Acceptable())
}
