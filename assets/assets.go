// Package assets downloads remote binaries (cover art, avatars) into durable
// local storage.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thanhpk/randstr"
	"github.com/tanosshi/inami/request"
)

// Subdirectories under the data dir. The database stores paths relative to
// the data dir; the UI layer resolves them.
const (
	AlbumImagesDir   = "images/albumImages"
	CommentImagesDir = "images/comments"
	LyricsDir        = "lyrics"
)

// Store downloads the remote URL into dir and returns the path of the new
// file. The extension comes from the declared content type. Filenames are
// time+random, so storing the same URL twice produces two files: the cache
// intentionally never dedupes by content.
func Store(ctx context.Context, remoteURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil && !os.IsExist(err) {
		return "", fmt.Errorf("error creating asset dir '%s': %w", dir, err)
	}

	resp, err := request.Get(ctx, remoteURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := request.Error(resp); err != nil {
		return "", fmt.Errorf("unexpected status downloading '%s': %w", remoteURL, err)
	}

	name := fmt.Sprintf("%d_%s.%s",
		time.Now().UnixNano(),
		randstr.Hex(4),
		extensionFor(resp.Header.Get("Content-Type")))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating asset file '%s': %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("error writing asset file '%s': %w", path, err)
	}

	return path, nil
}

// WriteLyrics stores lyric text for a song and returns the file's path.
func WriteLyrics(baseDir, songID, text string) (string, error) {
	dir := filepath.Join(baseDir, LyricsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil && !os.IsExist(err) {
		return "", fmt.Errorf("error creating lyrics dir '%s': %w", dir, err)
	}
	path := filepath.Join(dir, songID+".lrc")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("error writing lyrics file '%s': %w", path, err)
	}
	return path, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "jpeg"):
		return "jpg"
	default:
		return "jpg"
	}
}
