package travel

import "travelhub/pkg/models"

// Registry is the ordered, immutable set of declared content types.
// Declaration order is meaningful: it drives navigation order and the key
// order of grouped results, so keys are kept in an explicit slice (Go maps
// do not preserve insertion order).
type Registry struct {
	keys  []string
	types map[string]models.ContentType
}

// NewRegistry builds a registry from descriptors in declaration order.
// Duplicate keys are a programming error.
func NewRegistry(types ...models.ContentType) *Registry {
	r := &Registry{types: make(map[string]models.ContentType, len(types))}
	for _, ct := range types {
		if _, exists := r.types[ct.Key]; exists {
			panic("duplicate content type key: " + ct.Key)
		}
		r.keys = append(r.keys, ct.Key)
		r.types[ct.Key] = ct
	}
	return r
}

// DefaultRegistry declares the content types served by the travel site.
func DefaultRegistry() *Registry {
	return NewRegistry(
		models.ContentType{
			Key:        "destination",
			Endpoint:   "destination",
			Label:      "Destinations",
			ListPath:   "/destinations",
			DetailPath: "/destination",
			Fields: []models.Field{
				{Key: "country", Label: "Country"},
				{Key: "attraction_type", Label: "Attraction Type"},
				{Key: "image", Label: "Image"},
				{Key: "summary", Label: "Summary"},
			},
		},
		models.ContentType{
			Key:        "travel-tip",
			Endpoint:   "travel-tip",
			Label:      "Travel Tips",
			ListPath:   "/travel-tips",
			DetailPath: "/travel-tip",
			Fields: []models.Field{
				{Key: "category", Label: "Category"},
				{Key: "tip_text", Label: "Tip"},
				{Key: "difficulty", Label: "Difficulty"},
				{Key: "image", Label: "Image"},
			},
		},
		models.ContentType{
			Key:        "restaurant",
			Endpoint:   "restaurant",
			Label:      "Restaurants",
			ListPath:   "/restaurants",
			DetailPath: "/restaurant",
			Fields: []models.Field{
				{Key: "cuisine", Label: "Cuisine"},
				{Key: "price_range", Label: "Price Range"},
				{Key: "description", Label: "Description"},
				{Key: "image", Label: "Image"},
			},
		},
	)
}

// Keys returns the type keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Get looks up one descriptor by key.
func (r *Registry) Get(key string) (models.ContentType, bool) {
	ct, ok := r.types[key]
	return ct, ok
}

// All returns every descriptor in declaration order.
func (r *Registry) All() []models.ContentType {
	out := make([]models.ContentType, 0, len(r.keys))
	for _, key := range r.keys {
		out = append(out, r.types[key])
	}
	return out
}
