package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tanosshi/inami/assets"
	"github.com/tanosshi/inami/data"
)

// ReplaceArtistComments replaces the comment snapshot for one artist.
// Avatars still holding a remote URL are downloaded into the asset cache
// under baseDir; a failed download leaves the avatar null rather than
// failing the snapshot.
func (db *DB) ReplaceArtistComments(ctx context.Context, baseDir, artistID string, comments []data.Comment) error {
	return db.replaceComments(ctx, "artist_comments", baseDir, artistID, comments)
}

// ReplaceSongComments replaces the comment snapshot for one song.
func (db *DB) ReplaceSongComments(ctx context.Context, baseDir, songID string, comments []data.Comment) error {
	return db.replaceComments(ctx, "song_comments", baseDir, songID, comments)
}

func (db *DB) replaceComments(ctx context.Context, table, baseDir, ownerID string, comments []data.Comment) error {
	rows := make([]data.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.Acceptable() {
			continue
		}
		c.OwnerID = ownerID
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		if c.AvatarPath.Valid && strings.HasPrefix(c.AvatarPath.String, "http") {
			dir := filepath.Join(baseDir, assets.CommentImagesDir)
			path, err := assets.Store(ctx, c.AvatarPath.String, dir)
			if err != nil {
				c.AvatarPath = sql.NullString{}
			} else {
				c.AvatarPath = nullString(path)
			}
		}
		rows = append(rows, c)
	}

	return withRetry(func() error {
		if err := db.Table(table).Where("owner_id = ?", ownerID).Delete(&data.Comment{}).Error; err != nil {
			return fmt.Errorf("error clearing comments for '%s': %w", ownerID, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := db.Table(table).Create(&rows).Error; err != nil {
			return fmt.Errorf("error inserting comments for '%s': %w", ownerID, err)
		}
		return nil
	})
}

// CommentsFor loads the current snapshot for one artist or song.
func (db *DB) CommentsFor(table, ownerID string) ([]data.Comment, error) {
	var comments []data.Comment
	if err := db.Table(table).Where("owner_id = ?", ownerID).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("error loading comments for '%s': %w", ownerID, err)
	}
	return comments, nil
}
