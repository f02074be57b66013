package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"travelhub/pkg/utils"
)

func newAuthRouter(t *testing.T, cfg utils.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "travelhub", Duration: time.Hour}
	router := gin.New()
	NewHandler(tokens, cfg).RegisterRoutes(router.Group("/auth"))

	protected := router.Group("/admin")
	protected.Use(AuthMiddleware(tokens))
	protected.POST("/refresh", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": MustGetClaims(c).User})
	})
	return router
}

func postJSON(router *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := utils.AuthConfig{EditorUser: "editor", EditorPasswordHash: string(hash)}
	router := newAuthRouter(t, cfg)

	t.Run("valid credentials", func(t *testing.T) {
		w := postJSON(router, "/auth/login", `{"username":"editor","password":"hunter2"}`, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "token")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(router, "/auth/login", `{"username":"editor","password":"nope"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong user", func(t *testing.T) {
		w := postJSON(router, "/auth/login", `{"username":"admin","password":"hunter2"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(router, "/auth/login", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	router := newAuthRouter(t, utils.AuthConfig{EditorUser: "editor"})

	w := postJSON(router, "/auth/login", `{"username":"editor","password":"x"}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(t, utils.AuthConfig{EditorUser: "editor", EditorPasswordHash: string(hash)})

	t.Run("missing token", func(t *testing.T) {
		w := postJSON(router, "/admin/refresh", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := postJSON(router, "/admin/refresh", "", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tokens := TokenService{Secret: []byte("test-secret"), Issuer: "travelhub", Duration: time.Hour}
		token, _, err := tokens.Sign("editor")
		require.NoError(t, err)

		w := postJSON(router, "/admin/refresh", "", token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "editor")
	})
}
