package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"travelhub/pkg/utils"
)

// Handler serves the editor login. There is no user store: the admin
// surface has exactly one editor credential, configured through the
// environment as a bcrypt hash.
type Handler struct {
	Tokens             TokenService
	EditorUser         string
	EditorPasswordHash string
}

func NewHandler(tokens TokenService, cfg utils.AuthConfig) *Handler {
	return &Handler{
		Tokens:             tokens,
		EditorUser:         cfg.EditorUser,
		EditorPasswordHash: cfg.EditorPasswordHash,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	if h.EditorPasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login disabled"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	if req.Username != h.EditorUser {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.EditorPasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := h.Tokens.Sign(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token sign failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp})
}
