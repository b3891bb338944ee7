// Package lrclib is a client for the lrclib.net lyrics database, the primary
// lyrics provider and the metadata hint the resolver uses for ambiguous
// title/artist strings.
package lrclib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"github.com/tanosshi/inami/request"
)

var baseURL = "https://lrclib.net/api"

// ErrNotFound is returned on a well-formed "no such track" answer, which the
// resolver treats differently from a transport failure.
var ErrNotFound = errors.New("lyrics not found")

type Result struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// Lyrics returns the best text a result has to offer, synced preferred.
func (r *Result) Lyrics() string {
	if r.SyncedLyrics != "" {
		return r.SyncedLyrics
	}
	return r.PlainLyrics
}

// Get fetches lyrics for an exact (artist, track) pair.
func Get(ctx context.Context, artist, track string) (*Result, error) {
	q := url.Values{}
	q.Set("artist_name", artist)
	q.Set("track_name", track)

	resp, err := request.Get(ctx, fmt.Sprintf("%s/get?%s", baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err := request.Error(resp); err != nil {
		return nil, fmt.Errorf("unexpected lrclib status: %w", err)
	}

	var result Result
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding lrclib response: %w", err)
	}
	return &result, nil
}

// Search looks tracks up by free text. The resolver leans on the returned
// trackName/artistName pairs to disambiguate raw input.
func Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)

	resp, err := request.Get(ctx, fmt.Sprintf("%s/search?%s", baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := request.Error(resp); err != nil {
		return nil, fmt.Errorf("unexpected lrclib status: %w", err)
	}

	var results []Result
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("error decoding lrclib response: %w", err)
	}
	return results, nil
}
