// Package kugou fetches lyrics from a second regional catalog. The download
// endpoint wraps base64 lyric content in callback-style JSON.
package kugou

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tanosshi/inami/request"
)

var (
	searchURL   = "https://lyrics.kugou.com/search?ver=1&man=yes&client=pc&keyword=%s"
	downloadURL = "https://lyrics.kugou.com/download?ver=1&client=pc&id=%s&accesskey=%s&fmt=lrc&charset=utf8"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type searchResponse struct {
	Candidates []struct {
		ID        string `json:"id"`
		AccessKey string `json:"accesskey"`
	} `json:"candidates"`
}

type downloadResponse struct {
	Content string `json:"content"`
}

// Lyrics is the final lyrics fallback: search for a candidate, download its
// payload, decode. Absence and malformed payloads are ("", nil).
func Lyrics(ctx context.Context, artist, track string) (string, error) {
	term := url.QueryEscape(artist + " - " + track)

	body, err := fetchUnwrapped(ctx, fmt.Sprintf(searchURL, term))
	if err != nil {
		return "", nil
	}
	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return "", nil
	}
	if len(search.Candidates) == 0 {
		return "", nil
	}

	hit := search.Candidates[0]
	body, err = fetchUnwrapped(ctx, fmt.Sprintf(downloadURL, url.QueryEscape(hit.ID), url.QueryEscape(hit.AccessKey)))
	if err != nil {
		return "", nil
	}
	var download downloadResponse
	if err := json.Unmarshal(body, &download); err != nil {
		return "", nil
	}
	if download.Content == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(download.Content)
	if err != nil {
		return "", nil
	}
	return string(decoded), nil
}

// fetchUnwrapped GETs a URL and strips the callback(...) wrapper when the
// endpoint adds one.
func fetchUnwrapped(ctx context.Context, url string) ([]byte, error) {
	resp, err := request.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return []byte(unwrapCallback(string(body))), nil
}

func unwrapCallback(body string) string {
	trimmed := strings.TrimSpace(body)
	open := strings.Index(trimmed, "(")
	if open < 0 || !strings.HasSuffix(trimmed, ")") || strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	return trimmed[open+1 : len(trimmed)-1]
}
