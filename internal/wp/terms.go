package wp

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// termLinkRelation is the _links relation WordPress attaches to a post to
// associate its ACF taxonomy fields with term resources.
const termLinkRelation = "acf:term"

// Resolver resolves taxonomy term references and media attachment
// references against the WordPress API. Results are memoized for the life
// of the process: term names by the exact link href, media URLs by
// attachment id. A failed lookup caches "" and is not retried in-process.
//
// Construct one Resolver per process; tests construct a fresh one per run
// so no cache state leaks between them.
type Resolver struct {
	client *Client

	mu        sync.RWMutex
	termNames map[string]string
	mediaURLs map[string]string
	flight    singleflight.Group
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{
		client:    client,
		termNames: make(map[string]string),
		mediaURLs: make(map[string]string),
	}
}

// ResolveTerms substitutes numeric taxonomy term ids in raw with their
// display names, using the acf:term link hints on the parent record.
// Candidates that are not well-formed non-negative integers pass through
// unchanged (they are already names), as does everything when the parent
// carries no link hints. The input shape is preserved: scalars stay
// scalars, sequences stay sequences. Resolution failures fall back to the
// raw value; they never abort the caller.
func (r *Resolver) ResolveTerms(ctx context.Context, raw any, parent RawPost) any {
	if raw == nil || raw == "" {
		return raw
	}

	hrefs := termLinks(parent)
	if len(hrefs) == 0 {
		return raw
	}

	if seq, ok := raw.([]any); ok {
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = r.resolveTerm(ctx, item, hrefs)
		}
		return out
	}
	return r.resolveTerm(ctx, raw, hrefs)
}

func (r *Resolver) resolveTerm(ctx context.Context, raw any, hrefs []string) any {
	id, ok := termID(raw)
	if !ok {
		return raw
	}

	href := matchTermLink(hrefs, id)
	if href == "" {
		return raw
	}

	name := r.termName(ctx, href)
	if name == "" {
		return raw
	}
	return name
}

// termID reports whether v is a well-formed non-negative integer term
// reference and returns its decimal form. All-digit strings count as ids
// even if they happen to be legitimate numeric labels.
func termID(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if !isDigits(val) {
			return "", false
		}
		return val, true
	case float64:
		if val < 0 || val != math.Trunc(val) {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		if val < 0 {
			return "", false
		}
		return strconv.Itoa(val), true
	}
	return "", false
}

// termLinks pulls the term hrefs out of the parent's _links block.
func termLinks(parent RawPost) []string {
	links, ok := parent["_links"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := links[termLinkRelation].([]any)
	if !ok {
		return nil
	}

	hrefs := make([]string, 0, len(entries))
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			if href, ok := m["href"].(string); ok && href != "" {
				hrefs = append(hrefs, href)
			}
		}
	}
	return hrefs
}

// matchTermLink finds the href whose final path segment is the term id.
func matchTermLink(hrefs []string, id string) string {
	for _, href := range hrefs {
		trimmed := strings.TrimRight(href, "/")
		if strings.HasSuffix(trimmed, "/"+id) {
			return trimmed
		}
	}
	return ""
}

// termName returns the display name for one term href, fetching it on
// first use. Concurrent duplicate fetches for the same href collapse into
// one request; a failed fetch caches "" for the rest of the process.
func (r *Resolver) termName(ctx context.Context, href string) string {
	r.mu.RLock()
	name, ok := r.termNames[href]
	r.mu.RUnlock()
	if ok {
		return name
	}

	v, _, _ := r.flight.Do("term:"+href, func() (any, error) {
		var term struct {
			Name string `json:"name"`
		}
		if err := r.client.GetJSON(ctx, href, &term); err != nil {
			log.Printf("[wp] term fetch %s: %v", href, err)
		}

		r.mu.Lock()
		r.termNames[href] = term.Name
		r.mu.Unlock()
		return term.Name, nil
	})

	name, _ = v.(string)
	return name
}
