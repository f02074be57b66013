package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"travelhub/internal/snapshot"
	"travelhub/internal/travel"
	"travelhub/pkg/models"
	"travelhub/pkg/utils"
)

// Exports the snapshot database to one CSV per content type, with the
// declared custom fields as trailing columns in descriptor order.
func main() {
	outDir := flag.String("out", "data", "output directory for CSV files")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := snapshot.MustOpen(utils.LoadSnapshotConfig())
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	registry := travel.DefaultRegistry()
	for _, ct := range registry.All() {
		outPath := filepath.Join(*outDir, ct.Key+".csv")
		if err := exportType(ctx, store, ct, outPath); err != nil {
			log.Fatalf("export %s failed: %v", ct.Key, err)
		}
		log.Printf("✅ exported %s to %s", ct.Key, outPath)
	}
}

func exportType(ctx context.Context, store *snapshot.Store, ct models.ContentType, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	header := []string{"id", "type", "title", "slug", "link", "date", "excerpt", "hero_image"}
	for _, field := range ct.Fields {
		header = append(header, field.Key)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	posts, err := store.ListByType(ctx, ct.Key)
	if err != nil {
		return err
	}

	for _, p := range posts {
		row := []string{p.ID, p.TypeKey, p.Title, p.Slug, p.Link, p.Date, p.Excerpt, p.HeroImage}
		for _, field := range ct.Fields {
			row = append(row, p.Fields[field.Key])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
