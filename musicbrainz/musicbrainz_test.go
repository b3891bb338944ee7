package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	old := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = old })
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestSearchRecording(t *testing.T) {
	stub(t, jsonHandler(`{"recordings":[
		{"title":"No Releases","artist-credit":[{"name":"A"}],"releases":[]},
		{"title":"Song Y","artist-credit":[{"name":"Artist X"}],
		 "releases":[{"title":"Album Z","date":"2011-07-19"}]}]}`))

	rec, err := SearchRecording(context.Background(), "Artist X", "Song Y")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Album Z", rec.Release)
	assert.Equal(t, "Artist X", rec.Artist)
	assert.Equal(t, "2011-07-19", rec.Date)
}

func TestSearchRecordingAllReleaseless(t *testing.T) {
	stub(t, jsonHandler(`{"recordings":[{"title":"X","releases":[]}]}`))

	rec, err := SearchRecording(context.Background(), "A", "X")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSearchRecordingPropagatesTransportFailure(t *testing.T) {
	stub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := SearchRecording(context.Background(), "A", "X")
	assert.Error(t, err)
}

func TestSearchArtist(t *testing.T) {
	stub(t, jsonHandler(`{"artists":[{"id":"mbid-123","name":"Artist X"}]}`))

	mbid, err := SearchArtist(context.Background(), "Artist X")
	require.NoError(t, err)
	assert.Equal(t, "mbid-123", mbid)
}

func TestSearchArtistNoMatch(t *testing.T) {
	stub(t, jsonHandler(`{"artists":[]}`))

	mbid, err := SearchArtist(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, mbid)
}

func TestArtistRelations(t *testing.T) {
	stub(t, jsonHandler(`{"relations":[
		{"type":"wikidata","url":{"resource":"https://www.wikidata.org/wiki/Q11647"}},
		{"type":"blog","url":{"resource":"https://example.tumblr.com/"}},
		{"type":"purchase for mail-order","url":{"resource":"https://example.bandcamp.com"}},
		{"type":"streaming","url":{"resource":"https://soundcloud.com/example"}},
		{"type":"official homepage","url":{"resource":"https://example.com"}}]}`))

	rels, err := ArtistRelations(context.Background(), "mbid-123")
	require.NoError(t, err)
	assert.Equal(t, "Q11647", rels.WikidataID)
	assert.Equal(t, "https://example.tumblr.com/", rels.TumblrURL)
	assert.Equal(t, "https://example.bandcamp.com", rels.BandcampURL)
	assert.Equal(t, "https://soundcloud.com/example", rels.SoundcloudURL)
}
