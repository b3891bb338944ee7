// Package netease fetches lyrics from a regional streaming catalog: search
// "artist track", take the first hit, fetch its lyric payload.
package netease

import (
	"context"
	"fmt"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"github.com/tanosshi/inami/request"
)

var (
	searchURL = "https://music.163.com/api/search/get?s=%s&type=1&limit=1"
	lyricURL  = "https://music.163.com/api/song/lyric?id=%d&lv=1&kv=1&tv=-1"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type searchResponse struct {
	Result struct {
		Songs []struct {
			ID int64 `json:"id"`
		} `json:"songs"`
	} `json:"result"`
}

type lyricResponse struct {
	Lrc struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
}

// Lyrics finds lyric text for (artist, track). Absence and malformed
// payloads both come back as ("", nil): the aggregator just moves on.
func Lyrics(ctx context.Context, artist, track string) (string, error) {
	term := url.QueryEscape(artist + " " + track)

	var search searchResponse
	if err := request.FetchJSON(ctx, fmt.Sprintf(searchURL, term), &search); err != nil {
		return "", nil
	}
	if len(search.Result.Songs) == 0 {
		return "", nil
	}

	resp, err := request.Get(ctx, fmt.Sprintf(lyricURL, search.Result.Songs[0].ID))
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return "", nil
	}

	var lyric lyricResponse
	if err := json.NewDecoder(resp.Body).Decode(&lyric); err != nil {
		return "", nil
	}
	return lyric.Lrc.Lyric, nil
}
