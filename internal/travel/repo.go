package travel

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"travelhub/internal/wp"
	"travelhub/pkg/models"
)

// Repo fetches, maps and queries normalized posts. Every call re-fetches
// from the WordPress API; only the term/media caches inside the resolver
// persist between calls, so consumers always see current upstream content.
type Repo struct {
	Client   *wp.Client
	Mapper   *wp.Mapper
	Registry *Registry
	Limit    int // max concurrent per-type fetches / per-post mappings
}

func NewRepo(client *wp.Client, mapper *wp.Mapper, registry *Registry, limit int) *Repo {
	if limit <= 0 {
		limit = 8
	}
	return &Repo{Client: client, Mapper: mapper, Registry: registry, Limit: limit}
}

const isoLayout = "2006-01-02T15:04:05"

// postTime parses a normalized post date. Unparsable or missing dates map
// to the zero time so they sort as oldest.
func postTime(p models.Post) time.Time {
	t, err := time.Parse(isoLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sortByDateDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return postTime(posts[i]).After(postTime(posts[j]))
	})
}

// fetchAndMap fetches every raw post of one type and maps them
// concurrently. Result order follows the API response order.
func (r *Repo) fetchAndMap(ctx context.Context, ct models.ContentType) ([]models.Post, error) {
	raws, err := r.Client.FetchPosts(ctx, ct.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ct.Key, err)
	}

	posts := make([]models.Post, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Limit)
	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			posts[i] = *r.Mapper.MapPost(gctx, raw, ct)
			return nil
		})
	}
	_ = g.Wait()
	return posts, nil
}

// GetSortedPosts returns all posts of one type, newest first. An unknown
// type key is a configuration error and fails the call.
func (r *Repo) GetSortedPosts(ctx context.Context, typeKey string) ([]models.Post, error) {
	ct, ok := r.Registry.Get(typeKey)
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", typeKey)
	}

	posts, err := r.fetchAndMap(ctx, ct)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(posts)
	return posts, nil
}

// GetAllPostsGrouped fetches every declared type in parallel and returns
// posts grouped by type key. Every registry key is present, each with a
// (possibly empty) newest-first slice, regardless of fetch completion
// order.
func (r *Repo) GetAllPostsGrouped(ctx context.Context) (map[string][]models.Post, error) {
	keys := r.Registry.Keys()
	results := make([][]models.Post, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Limit)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			posts, err := r.GetSortedPosts(gctx, key)
			if err != nil {
				return err
			}
			results[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Post, len(keys))
	for i, key := range keys {
		grouped[key] = results[i]
	}
	return grouped, nil
}

// GetLatestPost returns the single newest post across every type, or nil
// when no type has any posts. Ties go to the earlier registry key.
func (r *Repo) GetLatestPost(ctx context.Context) (*models.Post, error) {
	grouped, err := r.GetAllPostsGrouped(ctx)
	if err != nil {
		return nil, err
	}

	var latest *models.Post
	for _, key := range r.Registry.Keys() {
		posts := grouped[key]
		if len(posts) == 0 {
			continue
		}
		p := posts[0]
		if latest == nil || postTime(p).After(postTime(*latest)) {
			latest = &p
		}
	}
	return latest, nil
}

// GetAllPostIDs returns identifier refs for one type, for route
// enumeration.
func (r *Repo) GetAllPostIDs(ctx context.Context, typeKey string) ([]models.PostRef, error) {
	posts, err := r.GetSortedPosts(ctx, typeKey)
	if err != nil {
		return nil, err
	}

	refs := make([]models.PostRef, 0, len(posts))
	for _, p := range posts {
		refs = append(refs, models.PostRef{ID: p.ID, TypeKey: p.TypeKey})
	}
	return refs, nil
}

// GetAllPostRefs returns identifier refs across every type, in registry
// order.
func (r *Repo) GetAllPostRefs(ctx context.Context) ([]models.PostRef, error) {
	grouped, err := r.GetAllPostsGrouped(ctx)
	if err != nil {
		return nil, err
	}

	var refs []models.PostRef
	for _, key := range r.Registry.Keys() {
		for _, p := range grouped[key] {
			refs = append(refs, models.PostRef{ID: p.ID, TypeKey: p.TypeKey})
		}
	}
	return refs, nil
}

// GetPostData looks up one post by type and id. A missing post is not an
// error; callers get nil.
func (r *Repo) GetPostData(ctx context.Context, typeKey, id string) (*models.Post, error) {
	posts, err := r.GetSortedPosts(ctx, typeKey)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// FindPostByID searches every declared type for the given id, in registry
// order. Returns nil when no type has a matching post.
func (r *Repo) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	grouped, err := r.GetAllPostsGrouped(ctx)
	if err != nil {
		return nil, err
	}

	for _, key := range r.Registry.Keys() {
		posts := grouped[key]
		for i := range posts {
			if posts[i].ID == id {
				return &posts[i], nil
			}
		}
	}
	return nil, nil
}
