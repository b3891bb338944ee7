package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/arunsworld/nursery"

	"github.com/tanosshi/inami/assets"
	"github.com/tanosshi/inami/bandcamp"
	"github.com/tanosshi/inami/data"
	"github.com/tanosshi/inami/db"
	"github.com/tanosshi/inami/lastfm"
	"github.com/tanosshi/inami/musicbrainz"
	"github.com/tanosshi/inami/soundcloud"
	"github.com/tanosshi/inami/tumblr"
	"github.com/tanosshi/inami/wikidata"
	"github.com/tanosshi/inami/youtube"
)

// defaultArtistBatchSize bounds how many artists resolve at once when the
// batch caller doesn't say.
const defaultArtistBatchSize = 2

// An ArtistFailure is the terminal outcome of a resolution that could not
// produce anything useful. It names the artist so batch callers can report
// which item failed.
type ArtistFailure struct {
	Name string
	Err  error
}

func (f *ArtistFailure) Error() string {
	return fmt.Sprintf("error resolving artist '%s': %v", f.Name, f.Err)
}

func (f *ArtistFailure) Unwrap() error { return f.Err }

// FetchAndStoreArtistMetadata resolves an artist's image, identifiers, genre
// tags and listener count and upserts them. The comment snapshot is refreshed
// first, independent of how image resolution goes. Failure comes back as an
// *ArtistFailure; the existing row is left as-is.
func (r *Resolver) FetchAndStoreArtistMetadata(ctx context.Context, name string) error {
	id, err := r.DB.EnsureArtistID(name)
	if err != nil {
		return &ArtistFailure{Name: name, Err: err}
	}
	r.refreshArtistComments(ctx, id, name)

	patch := db.ArtistPatch{}

	candidate := r.resolveImage(ctx, name, &patch)
	if candidate.Err != nil {
		log.Printf("artist image lookup for '%s' (%s): %v", name, candidate.Source, candidate.Err)
	}
	if candidate.URL != "" {
		patch.ImageURL = candidate.URL
		dir := fmt.Sprintf("%s/%s", r.BaseDir, assets.AlbumImagesDir)
		if path, err := assets.Store(ctx, candidate.URL, dir); err == nil {
			patch.ImagePath = path
		} else {
			log.Printf("caching image for '%s': %v", name, err)
		}
	}

	if r.Lastfm != nil {
		patch.Genres = data.JoinGenres(r.Lastfm.TopTags(name, ""))
	}

	listeners, err := lastfm.Listeners(ctx, name)
	if err != nil || listeners == 0 {
		listeners, _ = soundcloud.Followers(ctx, name)
	}
	patch.Listeners = listeners

	if _, _, err := r.DB.UpsertArtist(name, patch); err != nil {
		return &ArtistFailure{Name: name, Err: err}
	}
	return nil
}

// resolveImage walks the image waterfall: bandcamp, tumblr, wikidata, then
// the relations branch, which recovers site URLs from the open music graph
// and retries bandcamp and tumblr against them. First hit wins; the graph
// identifiers found along the way land in the patch either way.
func (r *Resolver) resolveImage(ctx context.Context, name string, patch *db.ArtistPatch) data.Candidate {
	if c := bandcamp.Image(ctx, name); c.URL != "" {
		return c
	}
	if c := tumblr.Image(ctx, name); c.URL != "" {
		return c
	}

	c := wikidata.Image(ctx, name)
	if c.URL != "" {
		patch.WikidataID = c.Invoked.WikidataID
		return c
	}

	mbid, err := musicbrainz.SearchArtist(ctx, name)
	if err != nil || mbid == "" {
		return data.Candidate{Source: "musicbrainz", Err: err, Invoked: data.Lookup{Name: name}}
	}
	patch.MBID = mbid

	relations, err := musicbrainz.ArtistRelations(ctx, mbid)
	if err != nil || relations == nil {
		return data.Candidate{Source: "musicbrainz", Err: err, Invoked: data.Lookup{MBID: mbid, Name: name}}
	}
	if relations.WikidataID != "" {
		patch.WikidataID = relations.WikidataID
	}

	if relations.BandcampURL != "" {
		if c := bandcamp.ImageFromURL(ctx, name, relations.BandcampURL); c.URL != "" {
			return c
		}
	}
	if relations.TumblrURL != "" {
		if c := tumblr.ImageFromURL(ctx, name, relations.TumblrURL); c.URL != "" {
			return c
		}
	}
	if relations.WikidataID != "" {
		if c := wikidata.ImageForEntity(ctx, name, relations.WikidataID); c.URL != "" {
			return c
		}
	}
	if relations.SoundcloudURL != "" {
		if followers, err := soundcloud.FollowersFromURL(ctx, relations.SoundcloudURL); err == nil && followers > 0 {
			patch.Listeners = followers
		}
	}

	return data.Candidate{Source: "relations", Invoked: data.Lookup{MBID: mbid, Name: name}}
}

func (r *Resolver) refreshArtistComments(ctx context.Context, artistID, name string) {
	video, _ := youtube.Search(ctx, name)
	if video == nil {
		return
	}
	comments, err := youtube.Comments(ctx, video.ID)
	if err != nil {
		return
	}
	if err := r.DB.ReplaceArtistComments(ctx, r.BaseDir, artistID, comments); err != nil {
		log.Printf("storing comments for '%s': %v", name, err)
	}
}

// FetchAndStoreArtistMetadataBatch resolves many artists with bounded
// parallelism, batchSize at a time (0 means the default). Every name is
// attempted; individual failures are logged and returned together after the
// whole batch settles.
func (r *Resolver) FetchAndStoreArtistMetadataBatch(ctx context.Context, names []string, batchSize int) []error {
	var failures []error
	for _, w := range batchWindows(len(names), batchSize) {
		window := names[w[0]:w[1]]
		results := make([]error, len(window))
		jobs := make([]nursery.ConcurrentJob, len(window))
		for i, name := range window {
			i, name := i, name
			jobs[i] = func(ctx context.Context, _ chan error) {
				results[i] = r.FetchAndStoreArtistMetadata(ctx, name)
			}
		}
		if err := nursery.RunConcurrentlyWithContext(ctx, jobs...); err != nil {
			failures = append(failures, err)
		}

		for _, err := range results {
			if err != nil {
				log.Printf("%v", err)
				failures = append(failures, err)
			}
		}
	}
	return failures
}

// batchWindows splits n items into [start, end) index pairs of at most size
// each.
func batchWindows(n, size int) [][2]int {
	if size <= 0 {
		size = defaultArtistBatchSize
	}
	var windows [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		windows = append(windows, [2]int{start, end})
	}
	return windows
}
