package data

import (
	"database/sql"
	"time"
)

// An Artist is one row of the artists table.
//
// Name is the display name and the logical key, compared case-insensitively.
// It is not unique at the row level: concurrent resolution can transiently
// leave several rows for the same logical artist, and the dedupe pass is what
// restores the one-row-per-artist invariant.
type Artist struct {
	ID   string `gorm:"primaryKey"`
	Name string

	// External identifiers, each independently nullable.
	MBID       sql.NullString `gorm:"column:mbid"`
	WikidataID sql.NullString

	// Local path once the image has been cached; ImageURL is kept as a
	// remote fallback.
	ImagePath sql.NullString
	ImageURL  sql.NullString

	// Scraped community listener count. Monotone: once set to a useful
	// value (>= 5) it is never downgraded to a worse one.
	Listeners sql.NullInt64

	// Ordered tag list, comma-joined in the column.
	Genres string

	LastReleaseDate sql.NullString

	CreatedAt time.Time
}

// InformativeFields counts the columns that carry real information, for
// scoring duplicate rows during the dedupe pass. Placeholders ("", 0) don't
// count.
func (a *Artist) InformativeFields() int {
	n := 0
	if a.MBID.Valid && a.MBID.String != "" {
		n++
	}
	if a.WikidataID.Valid && a.WikidataID.String != "" {
		n++
	}
	if a.ImagePath.Valid && a.ImagePath.String != "" {
		n++
	}
	if a.ImageURL.Valid && a.ImageURL.String != "" {
		n++
	}
	if a.Listeners.Valid && a.Listeners.Int64 > 0 {
		n++
	}
	if a.Genres != "" {
		n++
	}
	if a.LastReleaseDate.Valid && a.LastReleaseDate.String != "" {
		n++
	}
	return n
}
