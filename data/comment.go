package data

import (
	"database/sql"
	"strings"
	"time"
)

// A Comment is one row of artist_comments or song_comments, keyed by the
// artist or song it was fetched for. Comments are a point-in-time snapshot:
// each refresh replaces the whole set for its key.
type Comment struct {
	// The artist ID or song ID the snapshot belongs to.
	OwnerID string

	Author     string
	Text       string
	AvatarPath sql.NullString
	CreatedAt  time.Time
}

// Acceptable reports whether a fetched comment may be persisted. Link spam
// and empty comments are dropped at ingestion and never hit the store.
func (c *Comment) Acceptable() bool {
	if strings.TrimSpace(c.Author) == "" || strings.TrimSpace(c.Text) == "" {
		return false
	}
	if strings.Contains(c.Text, "http") {
		return false
	}
	return true
}
