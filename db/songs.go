package db

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/tanosshi/inami/data"
)

// EnsureSong inserts a song row if one doesn't exist yet, doing nothing when
// it does. The importer normally creates rows; this keeps direct invocations
// usable.
func (db *DB) EnsureSong(song *data.Song) error {
	if song.ID == "" {
		return fmt.Errorf("no song id")
	}
	if song.Lyrics == "" {
		song.Lyrics = data.LyricsNone
	}
	return withRetry(func() error {
		if err := db.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(song).
			Error; err != nil {
			return fmt.Errorf("error inserting song '%s': %w", song.ID, err)
		}
		return nil
	})
}

// GetSong loads one song row by ID.
func (db *DB) GetSong(id string) (*data.Song, error) {
	var song data.Song
	if err := db.Table("songs").Where("id = ?", id).Take(&song).Error; err != nil {
		return nil, fmt.Errorf("error loading song '%s': %w", id, err)
	}
	return &song, nil
}

// A SongPatch carries newly resolved values for one song. Empty strings mean
// "nothing new resolved" for that field. Corrected marks a title/artist
// rename cascade, the only case where existing non-null naming fields are
// overwritten.
type SongPatch struct {
	Title       string
	Artist      string
	Album       string
	Genres      string
	ReleaseDate string
	ArtworkPath string
	Palette     string
	Lyrics      string
	BioShort    string
	BioLong     string
	Listeners   int64

	Corrected bool
}

// UpdateSong merges a patch into the existing row. A field is written only
// when the patch has new data and the field was previously empty, or, for
// the naming fields, when the stored value is corrupt or the patch is a
// correction. The returned count is the
// number of columns actually written, so callers can observe the
// second-run-is-a-no-op guarantee.
func (db *DB) UpdateSong(id string, patch SongPatch) (int, error) {
	song, err := db.GetSong(id)
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{}

	if patch.Title != "" && (song.Title == "" || data.Corrupt(song.Title) || patch.Corrected) {
		if v := CleanSuffixes(patch.Title); v != song.Title {
			updates["title"] = v
		}
	}
	if patch.Artist != "" && (song.Artist == "" || isPlaceholderArtist(song.Artist) || data.Corrupt(song.Artist) || patch.Corrected) {
		if v := CleanSuffixes(patch.Artist); v != song.Artist {
			updates["artist"] = v
		}
	}
	if patch.Album != "" && (!song.Album.Valid || song.Album.String == "" || data.Corrupt(song.Album.String) || patch.Corrected) {
		if v := CleanSuffixes(patch.Album); !song.Album.Valid || v != song.Album.String {
			updates["album"] = v
		}
	}
	if patch.Genres != "" && song.Genres == "" {
		updates["genres"] = patch.Genres
	}
	if patch.ReleaseDate != "" && (!song.ReleaseDate.Valid || song.ReleaseDate.String == "") {
		updates["release_date"] = patch.ReleaseDate
	}
	if patch.ArtworkPath != "" && (!song.ArtworkPath.Valid || song.ArtworkPath.String == "") {
		updates["artwork_path"] = patch.ArtworkPath
	}
	if patch.Palette != "" && (!song.Palette.Valid || song.Palette.String == "") {
		updates["palette"] = patch.Palette
	}
	if patch.Lyrics != "" && (song.Lyrics == "" || song.Lyrics == data.LyricsNone) && patch.Lyrics != song.Lyrics {
		updates["lyrics"] = patch.Lyrics
	}
	if patch.BioShort != "" && (!song.BioShort.Valid || song.BioShort.String == "") {
		updates["bio_short"] = patch.BioShort
	}
	if patch.BioLong != "" && (!song.BioLong.Valid || song.BioLong.String == "") {
		updates["bio_long"] = patch.BioLong
	}
	if patch.Listeners > 0 && (!song.Listeners.Valid || song.Listeners.Int64 == 0) {
		updates["listeners"] = patch.Listeners
	}

	if len(updates) == 0 {
		return 0, nil
	}

	err = withRetry(func() error {
		if err := db.Table("songs").Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("error updating song '%s': %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(updates), nil
}

// Titles corrected by an external source often drag a release-type suffix
// along. Stripped repeatedly, since some sources stack them.
var releaseSuffixRE = regexp.MustCompile(`(?i)\s*-\s*(single|ep|remaster(ed)?|topic)\s*$`)

// CleanSuffixes strips trailing release-type suffixes like "- Single",
// "- EP", "- Remaster" and "- Topic" in any casing.
func CleanSuffixes(s string) string {
	s = strings.TrimSpace(s)
	for {
		cleaned := releaseSuffixRE.ReplaceAllString(s, "")
		if cleaned == s {
			return s
		}
		s = strings.TrimSpace(cleaned)
	}
}

func isPlaceholderArtist(artist string) bool {
	switch strings.ToLower(strings.TrimSpace(artist)) {
	case "", "unknown artist", "various artists":
		return true
	}
	return false
}
