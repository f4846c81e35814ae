package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"status-pulse-backend/internal/dates"
	"status-pulse-backend/internal/model"
	"status-pulse-backend/internal/projection"
)

type entryRequest struct {
	SystemID    string                   `json:"systemId" binding:"required"`
	Date        string                   `json:"date" binding:"required"`
	Status      model.AvailabilityStatus `json:"status" binding:"required"`
	Description string                   `json:"description"`
}

// entryResponse is a status entry with its system name resolved.
type entryResponse struct {
	model.StatusEntry
	SystemName string `json:"systemName"`
}

func withSystemNames(entries []model.StatusEntry, systems []model.System) []entryResponse {
	names := make(map[string]string, len(systems))
	for _, s := range systems {
		names[s.ID] = s.Name
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		name, ok := names[e.SystemID]
		if !ok {
			name = "Unknown system"
		}
		out = append(out, entryResponse{StatusEntry: e, SystemName: name})
	}
	return out
}

func hasSystem(systems []model.System, id string) bool {
	for _, s := range systems {
		if s.ID == id {
			return true
		}
	}
	return false
}

// GetRecentEntries handles GET /api/entries?limit=N.
func (h *Handler) GetRecentEntries(c *gin.Context) {
	limit := h.dashboard.RecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, withSystemNames(projection.RecentEntries(snap.StatusEntries, limit), snap.Systems))
}

// GetSystemEntries handles GET /api/systems/:id/entries.
func (h *Handler) GetSystemEntries(c *gin.Context) {
	id := c.Param("id")
	snap := h.store.Snapshot()
	if !hasSystem(snap.Systems, id) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "System not found"})
		return
	}
	c.JSON(http.StatusOK, withSystemNames(projection.EntriesForSystem(snap.StatusEntries, id), snap.Systems))
}

// CreateEntry handles POST /api/entries.
func (h *Handler) CreateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := dates.Parse(strings.TrimSpace(req.Date))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Selectable() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + string(req.Status)})
		return
	}
	entries, err := h.store.AddStatusEntry(c.Request.Context(), model.StatusEntry{
		SystemID:    req.SystemID,
		Date:        day.String(),
		Status:      req.Status,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entries[len(entries)-1])
}

// DeleteEntry handles DELETE /api/entries/:id.
func (h *Handler) DeleteEntry(c *gin.Context) {
	if _, err := h.store.DeleteStatusEntry(c.Request.Context(), c.Param("id")); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
