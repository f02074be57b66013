package main

import (
	"context"
	"flag"
	"log"
	"time"

	"travelhub/internal/snapshot"
	"travelhub/internal/travel"
	"travelhub/internal/wp"
	"travelhub/pkg/utils"
)

// Fetches every declared content type from the WordPress API, normalizes
// the posts and upserts them into the local sqlite snapshot. The snapshot
// feeds mirror-server and export-csv, so builds can run without upstream.
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall fetch timeout")
	flag.Parse()

	apiCfg := utils.LoadAPIConfig()

	client := wp.NewClient(apiCfg.WPBaseURL, apiCfg.HTTPTimeout)
	resolver := wp.NewResolver(client)
	mapper := wp.NewMapper(resolver, apiCfg.FetchConcurrency)
	registry := travel.DefaultRegistry()
	repo := travel.NewRepo(client, mapper, registry, apiCfg.FetchConcurrency)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	grouped, err := repo.GetAllPostsGrouped(ctx)
	if err != nil {
		log.Fatalf("fetch posts failed: %v", err)
	}

	store := snapshot.MustOpen(utils.LoadSnapshotConfig())
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	total := 0
	for _, key := range registry.Keys() {
		posts := grouped[key]
		if err := store.UpsertPosts(ctx, posts); err != nil {
			log.Fatalf("upsert %s failed: %v", key, err)
		}
		log.Printf("[snapshot] %s: %d posts", key, len(posts))
		total += len(posts)
	}

	log.Printf("✅ snapshot complete: %d posts across %d types", total, len(registry.Keys()))
}
