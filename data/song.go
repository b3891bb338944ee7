package data

import (
	"database/sql"
	"strings"
	"time"
)

// LyricsNone is stored in Song.Lyrics when every provider came up empty. The
// column never holds the empty string: it is either this sentinel or a path.
const LyricsNone = "none"

// A Song is one row of the songs table. Rows are created by the library
// importer with little more than an ID and a URI; the resolver fills in the
// rest over time. Fields are only ever added or upgraded, never cleared.
type Song struct {
	// Externally assigned; never changed by the resolver.
	ID string `gorm:"primaryKey"`

	Title  string
	Artist string
	Album  sql.NullString

	// Ordered tag list, comma-joined in the column.
	Genres string

	ReleaseDate sql.NullString
	Duration    int64
	URI         string `gorm:"column:uri"`

	// Local path once the artwork has been cached, else a remote URL
	// fallback. "http"/"file://" prefixes mark already-absolute values.
	ArtworkPath sql.NullString

	// Ordered color values derived from the artwork, comma-joined.
	Palette sql.NullString

	// LyricsNone or a path like "lyrics/<id>.lrc". Never "".
	Lyrics string

	Liked     bool
	PlayCount int64

	BioShort sql.NullString
	BioLong  sql.NullString

	// A derived popularity proxy, not an authoritative count.
	Listeners sql.NullInt64

	CreatedAt time.Time
}

// GenreList splits the comma-joined genres column back into its ordered tags.
func (s *Song) GenreList() []string {
	if s.Genres == "" {
		return nil
	}
	parts := strings.Split(s.Genres, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinGenres is the inverse of GenreList.
func JoinGenres(tags []string) string {
	return strings.Join(tags, ",")
}
