package db

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tanosshi/inami/data"
)

// listeners below this are treated as never-measured and may be replaced by
// any positive reading; above it, readings only ever move upward.
const listenersFloor = 5

// GetArtistByName finds an artist row by case-insensitive name.
func (db *DB) GetArtistByName(name string) (*data.Artist, error) {
	var artist data.Artist
	err := db.Table("artists").
		Where("name = ? collate nocase", name).
		Take(&artist).Error
	if err != nil {
		return nil, fmt.Errorf("error loading artist '%s': %w", name, err)
	}
	return &artist, nil
}

// EnsureArtistID returns the row ID for a name, inserting a bare row with a
// synthetic ID when the artist is new. Comment snapshots need an owner ID
// before resolution has produced anything else.
func (db *DB) EnsureArtistID(name string) (string, error) {
	artist, err := db.GetArtistByName(name)
	if err == nil {
		return artist.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	fresh := data.Artist{ID: syntheticArtistID(name), Name: name, CreatedAt: time.Now()}
	err = withRetry(func() error {
		if err := db.Table("artists").Create(&fresh).Error; err != nil {
			return fmt.Errorf("error inserting artist '%s': %w", name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fresh.ID, nil
}

// An ArtistPatch carries newly resolved values for one artist. Empty strings
// and zero listeners mean "nothing new resolved".
type ArtistPatch struct {
	MBID            string
	WikidataID      string
	ImagePath       string
	ImageURL        string
	Listeners       int64
	Genres          string
	LastReleaseDate string
}

// UpsertArtist merges a patch into the row matching name (case-insensitive),
// filling only fields that are currently null or empty. Listeners are
// monotone: once a reading of at least listenersFloor is stored, later
// patches may only raise it. When no row matches, a new one is inserted with
// a synthetic ID. Returns the artist ID and the number of columns written.
func (db *DB) UpsertArtist(name string, patch ArtistPatch) (string, int, error) {
	artist, err := db.GetArtistByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, err
	}
	if err != nil {
		id := syntheticArtistID(name)
		fresh := data.Artist{
			ID:        id,
			Name:      name,
			Genres:    patch.Genres,
			CreatedAt: time.Now(),
		}
		if patch.MBID != "" {
			fresh.MBID = nullString(patch.MBID)
		}
		if patch.WikidataID != "" {
			fresh.WikidataID = nullString(patch.WikidataID)
		}
		if patch.ImagePath != "" {
			fresh.ImagePath = nullString(patch.ImagePath)
		}
		if patch.ImageURL != "" {
			fresh.ImageURL = nullString(patch.ImageURL)
		}
		if patch.Listeners > 0 {
			fresh.Listeners = nullInt64(patch.Listeners)
		}
		if patch.LastReleaseDate != "" {
			fresh.LastReleaseDate = nullString(patch.LastReleaseDate)
		}
		err := withRetry(func() error {
			if err := db.Table("artists").Create(&fresh).Error; err != nil {
				return fmt.Errorf("error inserting artist '%s': %w", name, err)
			}
			return nil
		})
		if err != nil {
			return "", 0, err
		}
		return id, 1, nil
	}

	updates := map[string]interface{}{}

	if patch.MBID != "" && (!artist.MBID.Valid || artist.MBID.String == "") {
		updates["mbid"] = patch.MBID
	}
	if patch.WikidataID != "" && (!artist.WikidataID.Valid || artist.WikidataID.String == "") {
		updates["wikidata_id"] = patch.WikidataID
	}
	if patch.ImagePath != "" && (!artist.ImagePath.Valid || artist.ImagePath.String == "") {
		updates["image_path"] = patch.ImagePath
	}
	if patch.ImageURL != "" && (!artist.ImageURL.Valid || artist.ImageURL.String == "") {
		updates["image_url"] = patch.ImageURL
	}
	if patch.Genres != "" && artist.Genres == "" {
		updates["genres"] = patch.Genres
	}
	if patch.LastReleaseDate != "" && (!artist.LastReleaseDate.Valid || artist.LastReleaseDate.String == "") {
		updates["last_release_date"] = patch.LastReleaseDate
	}
	if patch.Listeners > 0 {
		current := int64(0)
		if artist.Listeners.Valid {
			current = artist.Listeners.Int64
		}
		if current < listenersFloor || patch.Listeners > current {
			if patch.Listeners != current {
				updates["listeners"] = patch.Listeners
			}
		}
	}

	if len(updates) == 0 {
		return artist.ID, 0, nil
	}

	err = withRetry(func() error {
		if err := db.Table("artists").Where("id = ?", artist.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("error updating artist '%s': %w", name, err)
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return artist.ID, len(updates), nil
}

func syntheticArtistID(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:8]) + fmt.Sprintf("%d", time.Now().UnixNano()%1000)
}
