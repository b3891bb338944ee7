// this program enriches a sqlite3 music library with metadata scraped and
// fetched from a handful of public sources: catalog search, an open music
// graph, lyrics databases, storefront and blog pages.
//
// see db/schema.sql for info about the resulting database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tanosshi/inami/db"
	"github.com/tanosshi/inami/lastfm"
	"github.com/tanosshi/inami/resolver"
	"github.com/tanosshi/inami/sigctx"
)

const usage = `usage:
  inami song <title> [artist]    resolve and store one song's metadata
  inami artist <name>...         resolve and store artist metadata
  inami dedupe                   merge duplicate artist rows`

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	} else if err != nil {
		fmt.Println("canceled")
	} else {
		fmt.Println("done")
	}
}

func run() error {
	ctx := sigctx.New()

	dataDir := os.Getenv("INAMI_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	database, err := db.Open(filepath.Join(dataDir, "inami.db"))
	if err != nil {
		return err
	}
	defer database.Close()

	res := &resolver.Resolver{
		DB:      database,
		Lastfm:  lastfm.New(os.Getenv("LASTFM_API_KEY")),
		BaseDir: dataDir,
	}

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	switch args[0] {
	case "song":
		if len(args) < 2 {
			return fmt.Errorf("song requires a title")
		}
		title, artist := args[1], ""
		if len(args) > 2 {
			artist = args[2]
		}
		id := fmt.Sprintf("cli-%s", title)
		return res.FetchAndStoreSongMetadata(ctx, title, artist, id, "")

	case "artist":
		if len(args) < 2 {
			return fmt.Errorf("artist requires at least one name")
		}
		failures := res.FetchAndStoreArtistMetadataBatch(ctx, args[1:], 0)
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d artists failed", len(failures), len(args)-1)
		}
		return nil

	case "dedupe":
		deleted, err := database.DedupeArtists()
		if err != nil {
			return err
		}
		log.Printf("merged %d duplicate artist rows", deleted)
		return nil

	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
