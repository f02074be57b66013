package travel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/wp"
)

// newFakeWP serves static JSON arrays per endpoint; endpoints without an
// entry return an empty array.
func newFakeWP(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wp/v2/", func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path[len("/wp/v2/"):]
		body, ok := bodies[endpoint]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRepo(t *testing.T, bodies map[string]string) *Repo {
	t.Helper()
	srv := newFakeWP(t, bodies)
	client := wp.NewClient(srv.URL, time.Second)
	mapper := wp.NewMapper(wp.NewResolver(client), 4)
	return NewRepo(client, mapper, DefaultRegistry(), 4)
}

const destinationBody = `[
	{"id": 1, "title": {"rendered": "Oldest"}, "date": "2022-01-01 09:00:00", "acf": {"country": "Italy"}},
	{"id": 2, "title": {"rendered": "Newest"}, "date": "2024-06-15 12:00:00", "acf": {"country": "Japan"}},
	{"id": 3, "title": {"rendered": "Undated"}, "date": "", "acf": {"country": "Peru"}}
]`

func TestGetSortedPosts(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"destination": destinationBody})

	posts, err := repo.GetSortedPosts(context.Background(), "destination")
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "Newest", posts[0].Title)
	assert.Equal(t, "Oldest", posts[1].Title)
	// missing/unparsable dates sort last
	assert.Equal(t, "Undated", posts[2].Title)
}

func TestGetSortedPostsUnknownType(t *testing.T) {
	repo := newTestRepo(t, nil)

	_, err := repo.GetSortedPosts(context.Background(), "cruise")
	assert.Error(t, err)
}

func TestGetSortedPostsMissingBaseURL(t *testing.T) {
	client := wp.NewClient("", time.Second)
	mapper := wp.NewMapper(wp.NewResolver(client), 4)
	repo := NewRepo(client, mapper, DefaultRegistry(), 4)

	_, err := repo.GetSortedPosts(context.Background(), "destination")
	require.Error(t, err)
	assert.ErrorIs(t, err, wp.ErrNoBaseURL)
}

func TestGetSortedPostsUpstreamFailureDegradesToEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := wp.NewClient(srv.URL, time.Second)
	mapper := wp.NewMapper(wp.NewResolver(client), 4)
	repo := NewRepo(client, mapper, DefaultRegistry(), 4)

	posts, err := repo.GetSortedPosts(context.Background(), "destination")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetAllPostsGrouped(t *testing.T) {
	repo := newTestRepo(t, map[string]string{
		"destination": destinationBody,
		"restaurant":  `[{"id": 9, "title": {"rendered": "Trattoria"}, "date": "2024-01-01 08:00:00"}]`,
	})

	grouped, err := repo.GetAllPostsGrouped(context.Background())
	require.NoError(t, err)

	// exactly the registry's key set, empty types included
	require.Len(t, grouped, 3)
	assert.Contains(t, grouped, "destination")
	assert.Contains(t, grouped, "travel-tip")
	assert.Contains(t, grouped, "restaurant")

	assert.Len(t, grouped["destination"], 3)
	assert.Empty(t, grouped["travel-tip"])
	assert.Equal(t, "Newest", grouped["destination"][0].Title)
}

func TestGetLatestPost(t *testing.T) {
	t.Run("newest across types", func(t *testing.T) {
		repo := newTestRepo(t, map[string]string{
			"destination": destinationBody,
			"travel-tip":  `[{"id": 20, "title": {"rendered": "Pack light"}, "date": "2025-02-02 07:00:00"}]`,
		})

		latest, err := repo.GetLatestPost(context.Background())
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "Pack light", latest.Title)
		assert.Equal(t, "travel-tip", latest.TypeKey)
	})

	t.Run("empty upstream yields nil", func(t *testing.T) {
		repo := newTestRepo(t, nil)

		latest, err := repo.GetLatestPost(context.Background())
		require.NoError(t, err)
		assert.Nil(t, latest)
	})
}

func TestGetAllPostIDs(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"destination": destinationBody})

	refs, err := repo.GetAllPostIDs(context.Background(), "destination")
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "2", refs[0].ID) // newest first
	assert.Equal(t, "destination", refs[0].TypeKey)
}

func TestGetAllPostRefs(t *testing.T) {
	repo := newTestRepo(t, map[string]string{
		"destination": `[{"id": 1, "date": "2024-01-01 00:00:00"}]`,
		"restaurant":  `[{"id": 9, "date": "2024-01-02 00:00:00"}]`,
	})

	refs, err := repo.GetAllPostRefs(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	// registry order, not date order
	assert.Equal(t, "destination", refs[0].TypeKey)
	assert.Equal(t, "restaurant", refs[1].TypeKey)
}

func TestGetPostData(t *testing.T) {
	repo := newTestRepo(t, map[string]string{"destination": destinationBody})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		post, err := repo.GetPostData(ctx, "destination", "2")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "Newest", post.Title)
		assert.Equal(t, "Japan", post.Fields["country"])
	})

	t.Run("not found is nil, not an error", func(t *testing.T) {
		post, err := repo.GetPostData(ctx, "destination", "999")
		require.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestFindPostByID(t *testing.T) {
	repo := newTestRepo(t, map[string]string{
		"destination": destinationBody,
		"restaurant":  `[{"id": 9, "title": {"rendered": "Trattoria"}, "date": "2024-01-01 08:00:00"}]`,
	})
	ctx := context.Background()

	post, err := repo.FindPostByID(ctx, "9")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "restaurant", post.TypeKey)

	missing, err := repo.FindPostByID(ctx, "404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
