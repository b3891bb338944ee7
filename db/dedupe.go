package db

import (
	"fmt"
	"strings"

	"github.com/tanosshi/inami/data"
)

// DedupeArtists collapses artist rows whose names differ only by case. The
// row with the most informative fields survives; on a tie, the most recently
// created row wins. The winner absorbs any field it lacks from each loser,
// then the losers are deleted. Returns the number of deleted rows.
func (db *DB) DedupeArtists() (int, error) {
	var artists []data.Artist
	if err := db.Table("artists").Order("created_at asc").Find(&artists).Error; err != nil {
		return 0, fmt.Errorf("error loading artists: %w", err)
	}

	groups := map[string][]data.Artist{}
	for _, a := range artists {
		key := strings.ToLower(a.Name)
		groups[key] = append(groups[key], a)
	}

	deleted := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		winner := group[0]
		for _, a := range group[1:] {
			if better(a, winner) {
				winner = a
			}
		}

		patch := ArtistPatch{}
		var loserIDs []string
		for _, a := range group {
			if a.ID == winner.ID {
				continue
			}
			loserIDs = append(loserIDs, a.ID)
			if patch.MBID == "" && a.MBID.Valid && a.MBID.String != "" {
				patch.MBID = a.MBID.String
			}
			if patch.WikidataID == "" && a.WikidataID.Valid && a.WikidataID.String != "" {
				patch.WikidataID = a.WikidataID.String
			}
			if patch.ImagePath == "" && a.ImagePath.Valid && a.ImagePath.String != "" {
				patch.ImagePath = a.ImagePath.String
			}
			if patch.ImageURL == "" && a.ImageURL.Valid && a.ImageURL.String != "" {
				patch.ImageURL = a.ImageURL.String
			}
			if patch.Listeners == 0 && a.Listeners.Valid && a.Listeners.Int64 > 0 {
				patch.Listeners = a.Listeners.Int64
			}
			if patch.Genres == "" && a.Genres != "" {
				patch.Genres = a.Genres
			}
			if patch.LastReleaseDate == "" && a.LastReleaseDate.Valid && a.LastReleaseDate.String != "" {
				patch.LastReleaseDate = a.LastReleaseDate.String
			}
		}

		if err := db.mergeArtistFields(winner, patch); err != nil {
			return deleted, fmt.Errorf("error merging duplicates of '%s': %w", winner.Name, err)
		}

		err := withRetry(func() error {
			if err := db.Table("artists").Where("id in ?", loserIDs).Delete(&data.Artist{}).Error; err != nil {
				return fmt.Errorf("error deleting duplicates of '%s': %w", winner.Name, err)
			}
			return nil
		})
		if err != nil {
			return deleted, err
		}
		deleted += len(loserIDs)
	}
	return deleted, nil
}

// mergeArtistFields fills the winner's null or empty fields from the patch,
// addressing the row by ID so duplicates with the same name are not touched.
func (db *DB) mergeArtistFields(winner data.Artist, patch ArtistPatch) error {
	updates := map[string]interface{}{}
	if patch.MBID != "" && (!winner.MBID.Valid || winner.MBID.String == "") {
		updates["mbid"] = patch.MBID
	}
	if patch.WikidataID != "" && (!winner.WikidataID.Valid || winner.WikidataID.String == "") {
		updates["wikidata_id"] = patch.WikidataID
	}
	if patch.ImagePath != "" && (!winner.ImagePath.Valid || winner.ImagePath.String == "") {
		updates["image_path"] = patch.ImagePath
	}
	if patch.ImageURL != "" && (!winner.ImageURL.Valid || winner.ImageURL.String == "") {
		updates["image_url"] = patch.ImageURL
	}
	if patch.Listeners > 0 && (!winner.Listeners.Valid || winner.Listeners.Int64 == 0) {
		updates["listeners"] = patch.Listeners
	}
	if patch.Genres != "" && winner.Genres == "" {
		updates["genres"] = patch.Genres
	}
	if patch.LastReleaseDate != "" && (!winner.LastReleaseDate.Valid || winner.LastReleaseDate.String == "") {
		updates["last_release_date"] = patch.LastReleaseDate
	}
	if len(updates) == 0 {
		return nil
	}
	return withRetry(func() error {
		return db.Table("artists").Where("id = ?", winner.ID).Updates(updates).Error
	})
}

func better(a, b data.Artist) bool {
	sa, sb := a.InformativeFields(), b.InformativeFields()
	if sa != sb {
		return sa > sb
	}
	return a.CreatedAt.After(b.CreatedAt)
}
