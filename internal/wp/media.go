package wp

import (
	"context"
	"log"
	"regexp"
	"strconv"
)

var absoluteURL = regexp.MustCompile(`^https?://`)

// ResolveImage normalizes an image-like custom field value to a usable
// URL. First matching case wins; sequences collapse to their first
// element, since only the hero image matters.
func (r *Resolver) ResolveImage(ctx context.Context, raw any) string {
	switch val := raw.(type) {
	case nil:
		return ""
	case []any:
		if len(val) == 0 {
			return ""
		}
		return r.ResolveImage(ctx, val[0])
	case map[string]any:
		if u := StringValue(val["url"]); u != "" {
			return u
		}
		if u := StringValue(val["source_url"]); u != "" {
			return u
		}
		if id, ok := val["ID"]; ok {
			return r.ResolveImage(ctx, id)
		}
		if id, ok := val["id"]; ok {
			return r.ResolveImage(ctx, id)
		}
		return ""
	case string:
		if val == "" {
			return ""
		}
		if absoluteURL.MatchString(val) {
			return val
		}
		if isDigits(val) {
			return r.attachmentURL(ctx, val)
		}
		// assume an already usable relative reference
		return val
	case float64:
		return r.attachmentURL(ctx, strconv.FormatFloat(val, 'f', -1, 64))
	case int:
		return r.attachmentURL(ctx, strconv.Itoa(val))
	}
	return ""
}

// attachmentURL looks up an attachment's direct URL by id, memoized for
// the process lifetime. Failures cache "" and never abort the caller.
func (r *Resolver) attachmentURL(ctx context.Context, id string) string {
	r.mu.RLock()
	u, ok := r.mediaURLs[id]
	r.mu.RUnlock()
	if ok {
		return u
	}

	v, _, _ := r.flight.Do("media:"+id, func() (any, error) {
		var media struct {
			SourceURL string `json:"source_url"`
		}
		if err := r.client.GetJSON(ctx, r.client.MediaURL(id), &media); err != nil {
			log.Printf("[wp] media fetch %s: %v", id, err)
		}

		r.mu.Lock()
		r.mediaURLs[id] = media.SourceURL
		r.mu.Unlock()
		return media.SourceURL, nil
	})

	u, _ = v.(string)
	return u
}
