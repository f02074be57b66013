package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"travelhub/internal/snapshot"
	"travelhub/internal/travel"
	"travelhub/pkg/models"
	"travelhub/pkg/utils"
)

// Serves the snapshot database in WordPress REST shape at
// /wp/v2/{endpoint}, so the whole pipeline can be pointed at
// http://localhost:9000 and developed without the real CMS.
func main() {
	store := snapshot.MustOpen(utils.LoadSnapshotConfig())
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	registry := travel.DefaultRegistry()
	for _, ct := range registry.All() {
		ct := ct
		http.HandleFunc("/wp/v2/"+ct.Endpoint, func(w http.ResponseWriter, r *http.Request) {
			posts, err := store.ListByType(r.Context(), ct.Key)
			if err != nil {
				http.Error(w, "cannot read snapshot: "+err.Error(), http.StatusInternalServerError)
				return
			}

			out := make([]map[string]any, 0, len(posts))
			for _, p := range posts {
				out = append(out, wordpressShape(p))
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(out)
		})
	}

	log.Println("mirror-server listening on http://localhost:9000")
	log.Fatal(http.ListenAndServe(":9000", nil))
}

// wordpressShape rebuilds the upstream record layout from a normalized
// post: rendered title/excerpt objects and custom fields under "acf".
// Resolved values round-trip cleanly (names stay names, image URLs pass
// the media resolver verbatim).
func wordpressShape(p models.Post) map[string]any {
	acf := make(map[string]any, len(p.Fields))
	for k, v := range p.Fields {
		acf[k] = v
	}

	record := map[string]any{
		"title":   map[string]any{"rendered": p.Title},
		"excerpt": map[string]any{"rendered": p.Excerpt},
		"date":    p.Date,
		"slug":    p.Slug,
		"link":    p.Link,
		"acf":     acf,
	}

	if n, err := strconv.Atoi(p.ID); err == nil {
		record["id"] = n
	} else {
		record["id"] = p.ID
	}
	return record
}
