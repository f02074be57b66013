package wp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"travelhub/pkg/models"
)

// imageFieldKey is the custom field every content type uses for its hero
// image; it goes through media resolution instead of term resolution.
const imageFieldKey = "image"

// excerptFallbacks are tried in order when the API provides no rendered
// excerpt; the first non-empty resolved field value wins.
var excerptFallbacks = []string{"summary", "description", "tip_text"}

// Mapper turns raw WordPress records into normalized posts, resolving
// term and media references on the way.
type Mapper struct {
	resolver *Resolver
	limit    int // max concurrent field resolutions per post
}

func NewMapper(resolver *Resolver, limit int) *Mapper {
	if limit <= 0 {
		limit = 8
	}
	return &Mapper{resolver: resolver, limit: limit}
}

// MapPost maps one raw record into a normalized Post for the given
// content type. Every declared field gets an entry in Fields, "" when the
// record carries no usable value. Field resolutions are independent and
// run concurrently; resolution failures degrade to "" and cannot fail the
// mapping.
func (m *Mapper) MapPost(ctx context.Context, raw RawPost, ct models.ContentType) *models.Post {
	acf, _ := raw["acf"].(map[string]any)

	values := make([]string, len(ct.Fields))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.limit)

	for i, field := range ct.Fields {
		i, field := i, field
		// check both the acf object and top-level fields
		rawValue, ok := acf[field.Key]
		if !ok || rawValue == nil {
			rawValue = raw[field.Key]
		}

		g.Go(func() error {
			if field.Key == imageFieldKey {
				values[i] = m.resolver.ResolveImage(gctx, rawValue)
				return nil
			}
			resolved := m.resolver.ResolveTerms(gctx, rawValue, raw)
			values[i] = ListValue(resolved)
			return nil
		})
	}
	_ = g.Wait()

	fields := make(map[string]string, len(ct.Fields))
	for i, field := range ct.Fields {
		fields[field.Key] = values[i]
	}

	post := &models.Post{
		ID:        StringValue(firstValue(raw, "id", "ID")),
		TypeKey:   ct.Key,
		TypeLabel: ct.Label,
		Title:     StringValue(firstValue(raw, "title", "post_title")),
		Slug:      StringValue(raw["slug"]),
		Link:      StringValue(raw["link"]),
		Date:      ISODate(firstValue(raw, "date", "post_date")),
		HeroImage: fields[imageFieldKey],
		Fields:    fields,
	}

	post.Excerpt = StringValue(raw["excerpt"])
	if post.Excerpt == "" {
		for _, key := range excerptFallbacks {
			if v := fields[key]; v != "" {
				post.Excerpt = v
				break
			}
		}
	}

	return post
}

// firstValue returns the first non-nil value among the given keys.
func firstValue(raw RawPost, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
