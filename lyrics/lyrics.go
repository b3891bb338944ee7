// Package lyrics aggregates lyric providers into a single waterfall.
package lyrics

import (
	"context"
	"errors"
	"strings"

	"github.com/tanosshi/inami/kugou"
	"github.com/tanosshi/inami/lrclib"
	"github.com/tanosshi/inami/netease"
)

// Instrumental is returned (and eventually persisted) for tracks a provider
// explicitly flags as having no words. It is distinct from "not found".
const Instrumental = "instrumental"

// A Source finds lyric text for (artist, track). "" with a nil error means
// "not found here"; only transport-level surprises are errors, and the
// waterfall treats those as misses too.
type Source interface {
	Name() string
	Search(ctx context.Context, artist, track string) (string, error)
}

// Sources returns the provider waterfall in its fixed priority order.
func Sources() []Source {
	return []Source{lrclibSource{}, neteaseSource{}, kugouSource{}}
}

// Resolve walks the waterfall and returns the first usable text, normalized
// to LF line endings. "" means every provider came up empty; the caller
// persists the "none" sentinel, never an empty string.
func Resolve(ctx context.Context, artist, track string) string {
	return resolve(ctx, Sources(), artist, track)
}

func resolve(ctx context.Context, sources []Source, artist, track string) string {
	for _, source := range sources {
		text, err := source.Search(ctx, artist, track)
		if err != nil {
			continue
		}
		if text == Instrumental {
			return Instrumental
		}
		if text = Normalize(text); text != "" {
			return text
		}
	}
	return ""
}

// Normalize converts CRLF to LF and trims surrounding whitespace.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}

type lrclibSource struct{}

func (lrclibSource) Name() string { return "lrclib" }

func (lrclibSource) Search(ctx context.Context, artist, track string) (string, error) {
	result, err := lrclib.Get(ctx, artist, track)
	if errors.Is(err, lrclib.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if result.Instrumental {
		return Instrumental, nil
	}
	return result.Lyrics(), nil
}

type neteaseSource struct{}

func (neteaseSource) Name() string { return "netease" }

func (neteaseSource) Search(ctx context.Context, artist, track string) (string, error) {
	return netease.Lyrics(ctx, artist, track)
}

type kugouSource struct{}

func (kugouSource) Name() string { return "kugou" }

func (kugouSource) Search(ctx context.Context, artist, track string) (string, error) {
	return kugou.Lyrics(ctx, artist, track)
}
