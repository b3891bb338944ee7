// Package musicbrainz talks to the MusicBrainz ws/2 API. Unlike the scraped
// sources, a transport failure here propagates: a missing MBID is a hard
// dead-end for the relations branch, and the caller needs to tell "the artist
// isn't there" apart from "the service was down".
package musicbrainz

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tanosshi/inami/limiter"
	"github.com/tanosshi/inami/request"
)

var baseURL = "https://musicbrainz.org/ws/2"

// MusicBrainz allows one request per second.
var lim = limiter.New(time.Second)

// A Recording is a usable hit from the recording search, carrying the first
// release it appears on.
type Recording struct {
	Title   string
	Artist  string
	Release string
	Date    string
}

type recordingResponse struct {
	Recordings []struct {
		Title        string `json:"title"`
		ArtistCredit []struct {
			Name string `json:"name"`
		} `json:"artist-credit"`
		Releases []struct {
			Title string `json:"title"`
			Date  string `json:"date"`
		} `json:"releases"`
	} `json:"recordings"`
}

// SearchRecording looks a recording up by artist and title. It is the album
// fallback when the commercial catalog had no collection name. A hit without
// releases is rejected; absence is (nil, nil); transport failure is an error.
func SearchRecording(ctx context.Context, artist, track string) (*Recording, error) {
	if err := lim.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", fmt.Sprintf(`artist:%q AND recording:%q`, artist, track))
	q.Set("fmt", "json")
	q.Set("limit", "5")

	var result recordingResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf("%s/recording?%s", baseURL, q.Encode()), &result); err != nil {
		return nil, fmt.Errorf("error searching recording '%s - %s': %w", artist, track, err)
	}

	for _, rec := range result.Recordings {
		if len(rec.Releases) == 0 {
			continue
		}
		out := &Recording{
			Title:   rec.Title,
			Release: rec.Releases[0].Title,
			Date:    rec.Releases[0].Date,
		}
		if len(rec.ArtistCredit) > 0 {
			out.Artist = rec.ArtistCredit[0].Name
		}
		return out, nil
	}

	return nil, nil
}

type artistSearchResponse struct {
	Artists []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
}

// SearchArtist finds the MBID for an artist name, taking the first match.
// ("", nil) means no match.
func SearchArtist(ctx context.Context, name string) (string, error) {
	if err := lim.Wait(ctx); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("query", fmt.Sprintf("artist:%q", name))
	q.Set("fmt", "json")
	q.Set("limit", "1")

	var result artistSearchResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf("%s/artist?%s", baseURL, q.Encode()), &result); err != nil {
		return "", fmt.Errorf("error searching artist '%s': %w", name, err)
	}
	if len(result.Artists) == 0 {
		return "", nil
	}
	return result.Artists[0].ID, nil
}

// Relations are the external links recovered from an artist's URL
// relationships: the last-resort route back into the image sources.
type Relations struct {
	WikidataID    string
	TumblrURL     string
	BandcampURL   string
	SoundcloudURL string
}

type relationsResponse struct {
	Relations []struct {
		Type string `json:"type"`
		URL  struct {
			Resource string `json:"resource"`
		} `json:"url"`
	} `json:"relations"`
}

// ArtistRelations fetches the URL relationships for an MBID.
func ArtistRelations(ctx context.Context, mbid string) (*Relations, error) {
	if err := lim.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("inc", "url-rels")
	q.Set("fmt", "json")

	var result relationsResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf("%s/artist/%s?%s", baseURL, url.PathEscape(mbid), q.Encode()), &result); err != nil {
		return nil, fmt.Errorf("error fetching relations for '%s': %w", mbid, err)
	}

	rels := &Relations{}
	for _, rel := range result.Relations {
		resource := rel.URL.Resource
		switch {
		case strings.Contains(resource, "wikidata.org"):
			rels.WikidataID = wikidataIDFromURL(resource)
		case strings.Contains(resource, "tumblr.com"):
			rels.TumblrURL = resource
		case strings.Contains(resource, "bandcamp.com"):
			rels.BandcampURL = resource
		case strings.Contains(resource, "soundcloud.com"):
			rels.SoundcloudURL = resource
		}
	}
	return rels, nil
}

// like "https://www.wikidata.org/wiki/Q11647" -> "Q11647"
func wikidataIDFromURL(resource string) string {
	parts := strings.Split(strings.TrimRight(resource, "/"), "/")
	return parts[len(parts)-1]
}
