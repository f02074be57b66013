package models

// Post is the normalized, internal form of a WordPress post used by the
// repository and everything downstream of it.
//
// Raw API records are mapped into this structure first; list pages, the
// snapshot store and the CSV exporter all consume this representation.
type Post struct {
	ID        string            `json:"id"`                  // WordPress numeric id as string
	TypeKey   string            `json:"type"`                // content type key ("destination", ...)
	TypeLabel string            `json:"type_label"`          // display label of the content type
	Title     string            `json:"title"`               // rendered title
	Slug      string            `json:"slug,omitempty"`      // URL slug
	Link      string            `json:"link,omitempty"`      // canonical link on the WordPress site
	Date      string            `json:"date"`                // ISO 8601 with 'T', "" if missing
	Excerpt   string            `json:"excerpt,omitempty"`   // rendered excerpt or summary fallback
	HeroImage string            `json:"hero_image,omitempty"` // resolved image URL (if any)
	Fields    map[string]string `json:"fields"`              // every declared custom field, "" when absent
}

// PostRef identifies one post without carrying its content.
// Used for route enumeration and refresh events.
type PostRef struct {
	ID      string `json:"id"`
	TypeKey string `json:"type"`
}
