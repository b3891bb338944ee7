package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanosshi/inami/data"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnsureSongDefaultsLyrics(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.EnsureSong(&data.Song{ID: "s1", URI: "file:///a.mp3"}))

	song, err := db.GetSong("s1")
	require.NoError(t, err)
	assert.Equal(t, data.LyricsNone, song.Lyrics)

	// a second ensure of the same ID is a no-op
	require.NoError(t, db.EnsureSong(&data.Song{ID: "s1", URI: "file:///other.mp3"}))
	song, err = db.GetSong("s1")
	require.NoError(t, err)
	assert.Equal(t, "file:///a.mp3", song.URI)
}

func TestUpdateSongFillsAndConverges(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.EnsureSong(&data.Song{ID: "s1", Artist: "Unknown Artist"}))

	patch := SongPatch{
		Title:       "Midnight City - Single",
		Artist:      "M83",
		Album:       "Hurry Up, We're Dreaming",
		Genres:      "shoegaze,synthpop",
		ReleaseDate: "2011-08-16",
		Lyrics:      "lyrics/s1.lrc",
		Listeners:   120000,
	}

	n, err := db.UpdateSong("s1", patch)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	song, err := db.GetSong("s1")
	require.NoError(t, err)
	assert.Equal(t, "Midnight City", song.Title)
	assert.Equal(t, "M83", song.Artist)
	assert.Equal(t, "Hurry Up, We're Dreaming", song.Album.String)
	assert.Equal(t, "lyrics/s1.lrc", song.Lyrics)

	// running the same patch again writes nothing
	n, err = db.UpdateSong("s1", patch)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateSongDoesNotOverwriteWithoutCorrection(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.EnsureSong(&data.Song{ID: "s1", Title: "Original", Artist: "Someone"}))

	n, err := db.UpdateSong("s1", SongPatch{Title: "Replacement", Artist: "Someone Else"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = db.UpdateSong("s1", SongPatch{Title: "Replacement", Artist: "Someone Else", Corrected: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	song, err := db.GetSong("s1")
	require.NoError(t, err)
	assert.Equal(t, "Replacement", song.Title)
	assert.Equal(t, "Someone Else", song.Artist)
}

func TestUpdateSongRepairsCorruptFields(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.EnsureSong(&data.Song{
		ID:     "s1",
		Title:  "01_midnight_city",
		Artist: "M83",
		Album:  sql.NullString{String: "my_mangled_Ã©lbum", Valid: true},
	}))

	// mangled values are replaceable without a correction cascade
	n, err := db.UpdateSong("s1", SongPatch{Title: "Midnight City", Album: "Hurry Up, We're Dreaming"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	song, err := db.GetSong("s1")
	require.NoError(t, err)
	assert.Equal(t, "Midnight City", song.Title)
	assert.Equal(t, "Hurry Up, We're Dreaming", song.Album.String)
	assert.Equal(t, "M83", song.Artist)

	// and the repaired record converges
	n, err = db.UpdateSong("s1", SongPatch{Title: "Midnight City", Album: "Hurry Up, We're Dreaming"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCleanSuffixes(t *testing.T) {
	for input, want := range map[string]string{
		"Midnight City - Single":      "Midnight City",
		"Homework - EP":               "Homework",
		"One More Time - Remastered":  "One More Time",
		"Daft Punk - Topic":           "Daft Punk",
		"Stacked - Single - Remaster": "Stacked",
		"no suffix here":              "no suffix here",
		"Single-Minded":               "Single-Minded",
		"Midnight City - single":      "Midnight City",
	} {
		assert.Equal(t, want, CleanSuffixes(input), "input %q", input)
	}
}

func TestUpsertArtistFillsNullsOnly(t *testing.T) {
	db := testDB(t)

	id, n, err := db.UpsertArtist("M83", ArtistPatch{MBID: "mbid-1", Genres: "shoegaze"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, n)

	// case-insensitive match; only empty fields are filled
	id2, n, err := db.UpsertArtist("m83", ArtistPatch{MBID: "mbid-2", WikidataID: "Q966"})
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, 1, n)

	artist, err := db.GetArtistByName("M83")
	require.NoError(t, err)
	assert.Equal(t, "mbid-1", artist.MBID.String)
	assert.Equal(t, "Q966", artist.WikidataID.String)
	assert.Equal(t, "shoegaze", artist.Genres)
}

func TestEnsureArtistID(t *testing.T) {
	db := testDB(t)

	id, err := db.EnsureArtistID("M83")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// a second call finds the same row, case-insensitively
	again, err := db.EnsureArtistID("m83")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// a later upsert fills the bare row rather than creating another
	upsertID, _, err := db.UpsertArtist("M83", ArtistPatch{MBID: "mbid-1"})
	require.NoError(t, err)
	assert.Equal(t, id, upsertID)

	var all []data.Artist
	require.NoError(t, db.Table("artists").Find(&all).Error)
	assert.Len(t, all, 1)
}

func TestListenersMonotone(t *testing.T) {
	db := testDB(t)

	_, _, err := db.UpsertArtist("M83", ArtistPatch{Listeners: 3})
	require.NoError(t, err)

	// below the floor, any reading may replace it
	_, n, err := db.UpsertArtist("M83", ArtistPatch{Listeners: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = db.UpsertArtist("M83", ArtistPatch{Listeners: 500000})
	require.NoError(t, err)

	// an established reading never goes down
	_, n, err = db.UpsertArtist("M83", ArtistPatch{Listeners: 12})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, n, err = db.UpsertArtist("M83", ArtistPatch{Listeners: 600000})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	artist, err := db.GetArtistByName("M83")
	require.NoError(t, err)
	assert.Equal(t, int64(600000), artist.Listeners.Int64)
}

func TestDedupeArtists(t *testing.T) {
	db := testDB(t)

	older := data.Artist{
		ID:        "a1",
		Name:      "m83",
		MBID:      sql.NullString{String: "mbid-1", Valid: true},
		Genres:    "shoegaze",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := data.Artist{
		ID:         "a2",
		Name:       "M83",
		WikidataID: sql.NullString{String: "Q966", Valid: true},
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Table("artists").Create(&older).Error)
	require.NoError(t, db.Table("artists").Create(&newer).Error)

	deleted, err := db.DedupeArtists()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	var all []data.Artist
	require.NoError(t, db.Table("artists").Find(&all).Error)
	require.Len(t, all, 1)

	// the older row wins on informative fields and absorbs the newer's ID
	winner := all[0]
	assert.Equal(t, "a1", winner.ID)
	assert.Equal(t, "mbid-1", winner.MBID.String)
	assert.Equal(t, "Q966", winner.WikidataID.String)
	assert.Equal(t, "shoegaze", winner.Genres)
}

func TestDedupeTieGoesToMostRecent(t *testing.T) {
	db := testDB(t)

	older := data.Artist{ID: "a1", Name: "boards of canada", CreatedAt: time.Now().Add(-time.Hour)}
	newer := data.Artist{ID: "a2", Name: "Boards of Canada", CreatedAt: time.Now()}
	require.NoError(t, db.Table("artists").Create(&older).Error)
	require.NoError(t, db.Table("artists").Create(&newer).Error)

	_, err := db.DedupeArtists()
	require.NoError(t, err)

	var all []data.Artist
	require.NoError(t, db.Table("artists").Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, "a2", all[0].ID)
}

func TestReplaceCommentsFiltersAndSnapshots(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	first := []data.Comment{
		{Author: "alice", Text: "great track"},
		{Author: "spam", Text: "visit http://spam.example"},
		{Author: "", Text: "anonymous"},
		{Author: "bob", Text: "   "},
	}
	require.NoError(t, db.ReplaceArtistComments(ctx, dir, "a1", first))

	got, err := db.CommentsFor("artist_comments", "a1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Author)
	assert.False(t, got[0].AvatarPath.Valid)

	// a refresh replaces the whole snapshot
	second := []data.Comment{{Author: "carol", Text: "late to this"}}
	require.NoError(t, db.ReplaceArtistComments(ctx, dir, "a1", second))

	got, err = db.CommentsFor("artist_comments", "a1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "carol", got[0].Author)
}
