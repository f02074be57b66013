package travel

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/types", h.listTypes)       // GET /types
	rg.GET("/latest", h.latest)         // GET /latest
	rg.GET("/refs", h.listRefs)         // GET /refs
	rg.GET("/refs/:type", h.listIDs)    // GET /refs/destination
	rg.GET("/posts/:type", h.listPosts) // GET /posts/destination
	rg.GET("/posts/:type/:id", h.getPost)
	rg.GET("/post/:id", h.findPost) // GET /post/7 (search all types)
}

func (h *Handler) listTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": h.Repo.Registry.All()})
}

func (h *Handler) latest(c *gin.Context) {
	post, err := h.Repo.GetLatestPost(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "latest failed"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no posts"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) listPosts(c *gin.Context) {
	typeKey := c.Param("type")
	if _, ok := h.Repo.Registry.Get(typeKey); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}

	posts, err := h.Repo.GetSortedPosts(c.Request.Context(), typeKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": typeKey, "total": len(posts), "items": posts})
}

func (h *Handler) getPost(c *gin.Context) {
	typeKey := c.Param("type")
	if _, ok := h.Repo.Registry.Get(typeKey); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}

	post, err := h.Repo.GetPostData(c.Request.Context(), typeKey, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) findPost(c *gin.Context) {
	post, err := h.Repo.FindPostByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) listIDs(c *gin.Context) {
	typeKey := c.Param("type")
	if _, ok := h.Repo.Registry.Get(typeKey); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}

	refs, err := h.Repo.GetAllPostIDs(c.Request.Context(), typeKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refs failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": typeKey, "refs": refs})
}

func (h *Handler) listRefs(c *gin.Context) {
	refs, err := h.Repo.GetAllPostRefs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refs failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"refs": refs})
}
