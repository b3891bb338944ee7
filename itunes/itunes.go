// Package itunes looks tracks and albums up in the iTunes Search API. It is
// the first stop for album, artwork, genre and release-date resolution, and
// the probe the resolver uses to decide which half of an ambiguous "A - B"
// string is the artist.
package itunes

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tanosshi/inami/request"
)

var searchURL = "https://itunes.apple.com/search"

// A Track is one usable catalog hit.
type Track struct {
	Artist      string
	Title       string
	Album       string
	ArtworkURL  string
	Genre       string
	ReleaseDate string
}

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtistName       string `json:"artistName"`
		TrackName        string `json:"trackName"`
		CollectionName   string `json:"collectionName"`
		ArtworkURL100    string `json:"artworkUrl100"`
		PrimaryGenreName string `json:"primaryGenreName"`
		ReleaseDate      string `json:"releaseDate"`
	} `json:"results"`
}

// SearchTrack queries the catalog for "artist track". A hit without a
// collection name is not usable as an album source, so it is rejected and the
// caller falls back to the recording graph. Absence is (nil, nil).
func SearchTrack(ctx context.Context, artist, track string) (*Track, error) {
	term := strings.TrimSpace(artist + " " + track)
	if term == "" {
		return nil, nil
	}

	var result searchResponse
	if err := request.FetchJSON(ctx, queryURL(term, "song"), &result); err != nil {
		// Transport trouble reads as "not found"; the waterfall moves on.
		return nil, nil
	}
	if result.ResultCount == 0 || len(result.Results) == 0 {
		return nil, nil
	}

	hit := result.Results[0]
	if hit.CollectionName == "" {
		return nil, nil
	}

	return &Track{
		Artist:      hit.ArtistName,
		Title:       hit.TrackName,
		Album:       hit.CollectionName,
		ArtworkURL:  upscaleArtwork(hit.ArtworkURL100),
		Genre:       hit.PrimaryGenreName,
		ReleaseDate: hit.ReleaseDate,
	}, nil
}

// SearchAlbumCover finds cover art for an album by name, the dedicated lookup
// the resolver tries when the track hit carried no artwork.
func SearchAlbumCover(ctx context.Context, artist, album string) (string, error) {
	term := strings.TrimSpace(artist + " " + album)
	if term == "" {
		return "", nil
	}

	var result searchResponse
	if err := request.FetchJSON(ctx, queryURL(term, "album"), &result); err != nil {
		return "", nil
	}
	for _, hit := range result.Results {
		if hit.ArtworkURL100 != "" {
			return upscaleArtwork(hit.ArtworkURL100), nil
		}
	}
	return "", nil
}

func queryURL(term, entity string) string {
	q := url.Values{}
	q.Set("term", term)
	q.Set("media", "music")
	q.Set("entity", entity)
	q.Set("limit", "5")
	return fmt.Sprintf("%s?%s", searchURL, q.Encode())
}

// The API hands out 100x100 thumbnails; the full-size rendition lives at the
// same path.
func upscaleArtwork(url string) string {
	return strings.Replace(url, "100x100", "600x600", 1)
}
