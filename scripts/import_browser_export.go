package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/spf13/afero"

	"hotlist/config"
	"hotlist/internal/store"
	"hotlist/services/enrichment"
	"hotlist/services/metadata"
	"hotlist/services/watchlist"
)

// Imports a browser storage export ({"hotlist_movies": "...", ...}) into a
// data directory and backfills cast and director for the imported items.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: import_browser_export <export.json> <data_dir>")
	}
	exportPath, dataDir := os.Args[1], os.Args[2]

	data, err := os.ReadFile(exportPath)
	if err != nil {
		log.Fatalf("Failed to read export: %v", err)
	}

	// values are the raw strings the browser stored
	var export map[string]string
	if err := json.Unmarshal(data, &export); err != nil {
		log.Fatalf("Failed to parse export: %v", err)
	}

	ctx := context.Background()
	fs := afero.NewOsFs()
	backend, err := store.NewFileBackend(fs, dataDir)
	if err != nil {
		log.Fatalf("Failed to open data dir: %v", err)
	}

	imported := 0
	for _, key := range []string{store.KeyItems, store.KeyFriends, store.KeyRatingSource, store.KeyProfile, store.KeyOnboarding} {
		value, ok := export[key]
		if !ok {
			continue
		}
		if err := backend.Put(ctx, key, []byte(value)); err != nil {
			log.Fatalf("Failed to write %s: %v", key, err)
		}
		imported++
	}
	if imported == 0 {
		log.Fatal("Export contains no hotlist keys")
	}

	s, err := store.New(backend)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	cfg := config.DefaultSettings().Metadata
	cfg.TMDBAPIKey = os.Getenv("TMDB_API_KEY")
	cfg.CacheDir = dataDir
	meta := metadata.NewService(cfg, fs)

	engine := watchlist.NewEngine(s, enrichment.NewPipeline(meta, enrichment.WithWorkers(2)))
	if err := engine.Load(ctx); err != nil {
		log.Fatalf("Failed to load imported data: %v", err)
	}
	snap := engine.Snapshot()
	log.Printf("Imported %d items and %d friends", len(snap.Items), len(snap.Friends))

	if cfg.TMDBAPIKey == "" {
		log.Printf("TMDB_API_KEY not set, skipping detail backfill")
		// rewrite once so every section is stored in the current format
		if _, err := engine.SetRatingSource(ctx, string(snap.Preferences.RatingSource)); err != nil {
			log.Fatalf("Failed to save imported data: %v", err)
		}
		return
	}

	start := time.Now()
	updated, err := engine.BackfillDetails(ctx)
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}
	log.Printf("✓ Backfilled %d items in %s", updated, time.Since(start).Round(time.Millisecond))
}
