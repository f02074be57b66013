package travel

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, bodies map[string]string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepo(t, bodies)
	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group(""))
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerListPosts(t *testing.T) {
	router := newTestRouter(t, map[string]string{"destination": destinationBody})

	w := doGet(router, "/posts/destination")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
	assert.Contains(t, w.Body.String(), "Newest")
}

func TestHandlerUnknownType(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/posts/cruise", "/posts/cruise/1", "/refs/cruise"} {
		w := doGet(router, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHandlerGetPostNotFound(t *testing.T) {
	router := newTestRouter(t, map[string]string{"destination": destinationBody})

	w := doGet(router, "/posts/destination/999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(router, "/post/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerFindPost(t *testing.T) {
	router := newTestRouter(t, map[string]string{"destination": destinationBody})

	w := doGet(router, "/post/2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Newest")
}

func TestHandlerTypes(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(router, "/types")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "destination")
	assert.Contains(t, w.Body.String(), "Restaurants")
}

func TestHandlerLatestEmptyUpstream(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doGet(router, "/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
