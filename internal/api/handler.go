package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"status-pulse-backend/config"
	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/store"
	"status-pulse-backend/internal/timeline"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	engine    *timeline.Engine
	dashboard config.DashboardConfig
	today     func() dates.Day
}

// NewHandler creates a new API handler. A nil today uses the current UTC day.
func NewHandler(s store.Store, engine *timeline.Engine, dashboard config.DashboardConfig, today func() dates.Day) *Handler {
	if today == nil {
		today = dates.Today
	}
	return &Handler{
		store:     s,
		engine:    engine,
		dashboard: dashboard,
		today:     today,
	}
}

// abortWithStoreError maps a store failure onto an HTTP status.
func abortWithStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUnknownCategory):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
	case errors.Is(err, store.ErrUnknownSystem):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown system"})
	case errors.Is(err, store.ErrCategoryInUse):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Cannot delete category: it is assigned to one or more systems"})
	default:
		log.Printf("Store write failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save changes"})
	}
}
