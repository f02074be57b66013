package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"travelhub/internal/auth"
	"travelhub/internal/notify"
	"travelhub/internal/travel"
	"travelhub/internal/wp"
	"travelhub/pkg/models"
	"travelhub/pkg/utils"
)

func main() {
	apiCfg := utils.LoadAPIConfig()
	if apiCfg.WPBaseURL == "" {
		log.Println("warning: TRAVELHUB_WP_API_URL not set; post queries will fail")
	}

	client := wp.NewClient(apiCfg.WPBaseURL, apiCfg.HTTPTimeout)
	resolver := wp.NewResolver(client)
	mapper := wp.NewMapper(resolver, apiCfg.FetchConcurrency)
	registry := travel.DefaultRegistry()
	repo := travel.NewRepo(client, mapper, registry, apiCfg.FetchConcurrency)

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := notify.NewHub()
	router.GET("/ws", notify.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "upstream": apiCfg.WPBaseURL})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		if apiCfg.WPBaseURL == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"error":      "missing TRAVELHUB_WP_API_URL",
				"ws_clients": stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"upstream":   apiCfg.WPBaseURL,
			"ws_clients": stats.WSClients,
		})
	})

	// Posts (public)
	postsHandler := travel.NewHandler(repo)
	postsHandler.RegisterRoutes(router.Group(""))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authHandler := auth.NewHandler(tokenSvc, authCfg)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Admin (protected): re-check upstream and tell WS listeners.
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc))
	admin.POST("/refresh", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		log.Printf("[admin] refresh requested by %s", claims.User)

		latest, err := repo.GetLatestPost(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			return
		}

		var ref *models.PostRef
		if latest != nil {
			ref = &models.PostRef{ID: latest.ID, TypeKey: latest.TypeKey}
		}
		hub.BroadcastJSON(notify.NewRefreshEvent(ref))

		c.JSON(http.StatusOK, gin.H{"status": "refreshed", "latest": ref})
	})

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
