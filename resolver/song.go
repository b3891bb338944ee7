package resolver

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tanosshi/inami/assets"
	"github.com/tanosshi/inami/bandcamp"
	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/db"
	"github.com/tanosshi/inami/itunes"
	"github.com/tanosshi/inami/lastfm"
	"github.com/tanosshi/inami/lrclib"
	"github.com/tanosshi/inami/lyrics"
	"github.com/tanosshi/inami/musicbrainz"
	"github.com/tanosshi/inami/similarity"
	"github.com/tanosshi/inami/youtube"
)

// An InfoSource provides community metadata keyed on artist name. Satisfied
// by *lastfm.Client.
type InfoSource interface {
	TopTags(artist, fallback string) []string
	ArtistInfo(artist string) (short, long string)
}

// A Resolver owns the shared dependencies of the resolution pipeline. BaseDir
// is the documents directory that asset and lyrics paths are stored relative
// to.
type Resolver struct {
	DB      *db.DB
	Lastfm  InfoSource
	BaseDir string
}

// FetchAndStoreSongMetadata resolves everything we can learn about one song
// and persists it. Every field is fetched only when the stored record is
// missing it or holds something corrupt, so resolving a complete record again
// changes nothing beyond the comment snapshot.
func (r *Resolver) FetchAndStoreSongMetadata(ctx context.Context, title, artist, id, uri string) error {
	if err := r.DB.EnsureSong(&data.Song{ID: id, Title: title, Artist: artist, URI: uri}); err != nil {
		return err
	}
	song, err := r.DB.GetSong(id)
	if err != nil {
		return err
	}
	if title == "" {
		title = song.Title
	}
	if artist == "" {
		artist = song.Artist
	}

	title, artist, video := r.disambiguate(ctx, title, artist, uri)
	corrected := title != song.Title || artist != song.Artist

	patch := db.SongPatch{Title: title, Artist: artist, Corrected: corrected}

	var track *itunes.Track
	needAlbum := !song.Album.Valid || song.Album.String == "" || data.Corrupt(song.Album.String) || corrected
	needArtwork := !song.ArtworkPath.Valid || song.ArtworkPath.String == ""
	needDate := !song.ReleaseDate.Valid || song.ReleaseDate.String == ""
	if needAlbum || needArtwork || needDate || song.Genres == "" {
		track, _ = itunes.SearchTrack(ctx, artist, title)
	}

	if needAlbum {
		if track != nil {
			patch.Album = track.Album
		} else {
			recording, err := musicbrainz.SearchRecording(ctx, artist, title)
			if err != nil {
				log.Printf("musicbrainz recording lookup for '%s': %v", title, err)
			} else if recording != nil {
				patch.Album = recording.Release
				if needDate && recording.Date != "" {
					patch.ReleaseDate = recording.Date
				}
			}
		}
	}

	if needDate && patch.ReleaseDate == "" && track != nil {
		patch.ReleaseDate = track.ReleaseDate
	}

	if needArtwork {
		patch.ArtworkPath = r.resolveArtwork(ctx, track, artist, albumFor(patch, song))
	}

	r.resolveTags(song, track, artist, &patch)

	if song.Lyrics == "" || song.Lyrics == data.LyricsNone {
		patch.Lyrics = r.resolveLyrics(ctx, artist, title, id)
	}

	if !song.Listeners.Valid || song.Listeners.Int64 == 0 {
		patch.Listeners = r.resolvePopularity(ctx, artist, title, video)
	}

	if _, err := r.DB.UpdateSong(id, patch); err != nil {
		return err
	}

	if !IsGenericArtist(artist) {
		if date := releaseDateFor(patch, song); date != "" {
			if _, _, err := r.DB.UpsertArtist(artist, db.ArtistPatch{LastReleaseDate: date}); err != nil {
				log.Printf("recording release date for '%s': %v", artist, err)
			}
		}
	}

	// comment refresh is unconditional; the snapshot is always replaced
	if video == nil {
		video, _ = youtube.Search(ctx, artist+" "+title)
	}
	if video != nil {
		comments, err := youtube.Comments(ctx, video.ID)
		if err == nil {
			if err := r.DB.ReplaceSongComments(ctx, r.BaseDir, id, comments); err != nil {
				log.Printf("storing comments for '%s': %v", title, err)
			}
		}
	}

	return nil
}

// disambiguate settles on a title/artist pair. The returned video, when not
// nil, is the search hit the guess came from and is reused downstream for
// popularity and comments.
func (r *Resolver) disambiguate(ctx context.Context, title, artist, uri string) (string, string, *youtube.Video) {
	var video *youtube.Video

	if IsGenericArtist(artist) {
		// a lyrics database hit keyed on the raw title is the cheapest
		// reliable signal
		if results, err := lrclib.Search(ctx, title); err == nil && len(results) > 0 {
			if hit := results[0]; acceptHint(title, hit) {
				artist = hit.ArtistName
				if hit.TrackName != "" {
					title = hit.TrackName
				}
			}
		}
	}

	if IsGenericArtist(artist) {
		if first, second, ok := SplitSeparator(title); ok {
			title, artist = orderHalves(ctx, first, second)
		} else if v, _ := youtube.Search(ctx, title); v != nil {
			// low-confidence guess, but better than "Unknown Artist"
			video = v
			artist = youtube.ChannelArtist(v.Channel)
		}
	}

	if IsPlaceholderTitle(title) {
		title = TitleFromURI(uri)
		if v, _ := youtube.Search(ctx, artist+" "+title); v != nil {
			video = v
			if v.Title != "" {
				title = v.Title
			}
		}
	}

	// final swap check: if only the reversed ordering finds a catalog hit,
	// the halves were assigned the wrong way around
	if !IsGenericArtist(artist) && title != "" {
		forward, reverse := probeBoth(ctx, artist, title)
		if forward == nil && reverse != nil {
			title, artist = artist, title
		}
	}

	return title, artist, video
}

// A lyrics database search over the raw title returns loose matches; a hint
// is only trusted when it actually resembles what we started from.
const minHintConfidence = 0.5

func acceptHint(raw string, hit lrclib.Result) bool {
	if hit.ArtistName == "" {
		return false
	}
	raw = strings.ToLower(raw)
	track := strings.ToLower(hit.TrackName)
	combined := strings.ToLower(hit.ArtistName + " " + hit.TrackName)
	return similarity.Ratio(raw, track) >= minHintConfidence ||
		similarity.Ratio(raw, combined) >= minHintConfidence
}

// orderHalves decides which half of a split title is the artist. A half in a
// non-ASCII script is assumed to be the artist name; otherwise both orderings
// are probed against the catalog and the one with an album hit wins. The
// default is first=title, second=artist.
func orderHalves(ctx context.Context, first, second string) (title, artist string) {
	firstNonASCII, secondNonASCII := NonASCII(first), NonASCII(second)
	if firstNonASCII != secondNonASCII {
		if firstNonASCII {
			return second, first
		}
		return first, second
	}

	// orderings swapped: is (second=artist) or (first=artist) right?
	hitFirstTitle, hitFirstArtist := probeBoth(ctx, second, first)
	switch {
	case hitFirstTitle != nil:
		return first, second
	case hitFirstArtist != nil:
		return second, first
	default:
		return first, second
	}
}

var probeTrack = itunes.SearchTrack

// probeBoth issues both catalog orderings concurrently and joins them.
func probeBoth(ctx context.Context, artist, title string) (forward, reverse *itunes.Track) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		forward, _ = probeTrack(ctx, artist, title)
		return nil
	})
	g.Go(func() error {
		reverse, _ = probeTrack(ctx, title, artist)
		return nil
	})
	g.Wait()
	return forward, reverse
}

// resolveArtwork finds a cover image and caches it locally. The remote URL is
// only stored when the download itself fails.
func (r *Resolver) resolveArtwork(ctx context.Context, track *itunes.Track, artist, album string) string {
	remote := ""
	if track != nil {
		remote = track.ArtworkURL
	}
	if remote == "" && album != "" {
		remote, _ = itunes.SearchAlbumCover(ctx, artist, album)
	}
	if remote == "" {
		remote = bandcamp.Image(ctx, artist).URL
	}
	if remote == "" {
		return ""
	}

	dir := fmt.Sprintf("%s/%s", r.BaseDir, assets.AlbumImagesDir)
	path, err := assets.Store(ctx, remote, dir)
	if err != nil {
		log.Printf("caching artwork for '%s': %v", artist, err)
		return remote
	}
	return path
}

// resolveLyrics runs the provider waterfall, then retries the primary
// provider's free-text search once before settling for the sentinel.
func (r *Resolver) resolveLyrics(ctx context.Context, artist, title, id string) string {
	text := lyrics.Resolve(ctx, artist, title)
	if text == "" {
		if results, err := lrclib.Search(ctx, artist+" "+title); err == nil && len(results) > 0 {
			text = lyrics.Normalize(results[0].Lyrics())
		}
	}
	if text == "" {
		return data.LyricsNone
	}
	if text == lyrics.Instrumental {
		return lyrics.Instrumental
	}

	path, err := assets.WriteLyrics(r.BaseDir, id, text)
	if err != nil {
		log.Printf("writing lyrics for '%s': %v", title, err)
		return data.LyricsNone
	}
	return path
}

// resolvePopularity computes the listener proxy. The persisted value is the
// derived popularity when computable, else the raw scraped listener count,
// else nothing.
func (r *Resolver) resolvePopularity(ctx context.Context, artist, title string, video *youtube.Video) int64 {
	if video == nil {
		video, _ = youtube.Search(ctx, artist+" "+title)
	}
	views := int64(0)
	if video != nil {
		views = video.Views
	}
	listeners, _ := lastfm.Listeners(ctx, artist)

	if proxy := Popularity(views, listeners); proxy > 0 {
		return proxy
	}
	return listeners
}

// resolveTags fills genre tags and bio text from the community source. The
// tag retry falls back to the catalog's spelling of the artist name.
func (r *Resolver) resolveTags(song *data.Song, track *itunes.Track, artist string, patch *db.SongPatch) {
	if r.Lastfm == nil {
		return
	}
	if song.Genres == "" {
		fallback := ""
		if track != nil {
			fallback = track.Artist
		}
		patch.Genres = data.JoinGenres(r.Lastfm.TopTags(artist, fallback))
	}
	if !song.BioShort.Valid || song.BioShort.String == "" {
		patch.BioShort, patch.BioLong = r.Lastfm.ArtistInfo(artist)
	}
}

func releaseDateFor(patch db.SongPatch, song *data.Song) string {
	if patch.ReleaseDate != "" {
		return patch.ReleaseDate
	}
	if song.ReleaseDate.Valid {
		return song.ReleaseDate.String
	}
	return ""
}

func albumFor(patch db.SongPatch, song *data.Song) string {
	if patch.Album != "" {
		return patch.Album
	}
	if song.Album.Valid {
		return song.Album.String
	}
	return ""
}
