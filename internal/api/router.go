package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"status-pulse-backend/config"
	"status-pulse-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()
	if cfg.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.RequestIPHeader
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Responses are cached until they expire or the next successful write.
	responses := mw.NewResponseCache(cfg.CacheTTL)
	caching := responses.Cache()

	api := r.Group("/api")
	api.Use(rateLimiter, responses.Invalidate())
	{
		api.GET("/statuses", caching, h.GetStatuses)
		api.GET("/months", caching, h.GetMonths)
		api.GET("/dashboard", caching, h.GetDashboard)

		api.GET("/categories", caching, h.GetCategories)
		api.POST("/categories", h.CreateCategory)
		api.PUT("/categories/:id", h.UpdateCategory)
		api.DELETE("/categories/:id", h.DeleteCategory)

		api.GET("/systems", caching, h.GetSystems)
		api.POST("/systems", h.CreateSystem)
		api.PUT("/systems/:id", h.UpdateSystem)
		api.DELETE("/systems/:id", h.DeleteSystem)
		api.GET("/systems/:id/entries", caching, h.GetSystemEntries)
		api.GET("/systems/:id/timeline", caching, h.GetSystemTimeline)

		api.GET("/entries", caching, h.GetRecentEntries)
		api.POST("/entries", h.CreateEntry)
		api.DELETE("/entries/:id", h.DeleteEntry)
	}

	return r
}
