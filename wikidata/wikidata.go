// Package wikidata resolves artist images from knowledge-base image claims:
// search by name, take the entity, read its image claim, build the canonical
// file URL.
package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/request"
)

var (
	apiURL  = "https://www.wikidata.org/w/api.php"
	fileURL = "https://commons.wikimedia.org/wiki/Special:FilePath/%s"
)

const imageClaim = "P18"

type searchResponse struct {
	Search []struct {
		ID string `json:"id"`
	} `json:"search"`
}

type claimsResponse struct {
	Claims map[string][]struct {
		Mainsnak struct {
			Datavalue struct {
				Value string `json:"value"`
			} `json:"datavalue"`
		} `json:"mainsnak"`
	} `json:"claims"`
}

// Image resolves an image candidate by name. Network failure propagates in
// Candidate.Err: this branch distinguishes "the service was down" from "the
// entity has no image".
func Image(ctx context.Context, name string) data.Candidate {
	cand := data.Candidate{Source: "wikidata", Invoked: data.Lookup{Name: name}}

	id, err := SearchEntity(ctx, name)
	if err != nil {
		cand.Err = err
		return cand
	}
	if id == "" {
		return cand
	}
	cand.Invoked.WikidataID = id

	url, err := EntityImage(ctx, id)
	if err != nil {
		cand.Err = err
		return cand
	}
	cand.URL = url
	return cand
}

// ImageForEntity resolves an image candidate for a known entity ID, for the
// relations fallback.
func ImageForEntity(ctx context.Context, name, id string) data.Candidate {
	cand := data.Candidate{Source: "wikidata", Invoked: data.Lookup{Name: name, WikidataID: id}}
	url, err := EntityImage(ctx, id)
	if err != nil {
		cand.Err = err
		return cand
	}
	cand.URL = url
	return cand
}

// SearchEntity finds the entity ID for a name, "" when nothing matches.
func SearchEntity(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("action", "wbsearchentities")
	q.Set("search", name)
	q.Set("language", "en")
	q.Set("format", "json")
	q.Set("limit", "1")

	var result searchResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf("%s?%s", apiURL, q.Encode()), &result); err != nil {
		return "", fmt.Errorf("error searching entity for '%s': %w", name, err)
	}
	if len(result.Search) == 0 {
		return "", nil
	}
	return result.Search[0].ID, nil
}

// EntityImage reads the entity's image claim and returns the canonical file
// URL, "" when the claim is absent.
func EntityImage(ctx context.Context, id string) (string, error) {
	q := url.Values{}
	q.Set("action", "wbgetclaims")
	q.Set("entity", id)
	q.Set("property", imageClaim)
	q.Set("format", "json")

	var result claimsResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf("%s?%s", apiURL, q.Encode()), &result); err != nil {
		return "", fmt.Errorf("error fetching claims for '%s': %w", id, err)
	}

	claims := result.Claims[imageClaim]
	if len(claims) == 0 {
		return "", nil
	}
	filename := claims[0].Mainsnak.Datavalue.Value
	if filename == "" {
		return "", nil
	}
	return fmt.Sprintf(fileURL, url.PathEscape(strings.ReplaceAll(filename, " ", "_"))), nil
}
