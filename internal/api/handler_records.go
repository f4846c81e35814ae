package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"status-pulse-backend/internal/model"
	"status-pulse-backend/internal/projection"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type systemRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID string `json:"categoryId" binding:"required"`
}

// systemResponse is a system with its category resolved for display.
type systemResponse struct {
	model.System
	CategoryName string `json:"categoryName"`
}

func bindName(c *gin.Context, req any, name *string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	*name = strings.TrimSpace(*name)
	if *name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
		return false
	}
	return true
}

// --- Categories ---

// GetCategories handles GET /api/categories.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, projection.SortCategories(h.store.Categories()))
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindName(c, &req, &req.Name) {
		return
	}
	categories, err := h.store.AddCategory(c.Request.Context(), model.Category{Name: req.Name})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categories[len(categories)-1])
}

// UpdateCategory handles PUT /api/categories/:id.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindName(c, &req, &req.Name) {
		return
	}
	updated := model.Category{ID: c.Param("id"), Name: req.Name}
	if _, err := h.store.UpdateCategory(c.Request.Context(), updated); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if _, err := h.store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Systems ---

// GetSystems handles GET /api/systems.
func (h *Handler) GetSystems(c *gin.Context) {
	snap := h.store.Snapshot()
	systems := projection.SortSystems(snap.Systems)

	responses := make([]systemResponse, 0, len(systems))
	for _, s := range systems {
		responses = append(responses, systemResponse{
			System:       s,
			CategoryName: projection.CategoryName(snap.Categories, s.CategoryID),
		})
	}
	c.JSON(http.StatusOK, responses)
}

// bindSystem validates a system body. Whether its category exists is checked by the store.
func bindSystem(c *gin.Context) (systemRequest, bool) {
	var req systemRequest
	ok := bindName(c, &req, &req.Name)
	return req, ok
}

// CreateSystem handles POST /api/systems.
func (h *Handler) CreateSystem(c *gin.Context) {
	req, ok := bindSystem(c)
	if !ok {
		return
	}
	systems, err := h.store.AddSystem(c.Request.Context(), model.System{Name: req.Name, CategoryID: req.CategoryID})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, systems[len(systems)-1])
}

// UpdateSystem handles PUT /api/systems/:id.
func (h *Handler) UpdateSystem(c *gin.Context) {
	req, ok := bindSystem(c)
	if !ok {
		return
	}
	updated := model.System{ID: c.Param("id"), Name: req.Name, CategoryID: req.CategoryID}
	if _, err := h.store.UpdateSystem(c.Request.Context(), updated); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSystem handles DELETE /api/systems/:id. The system's status entries go with it.
func (h *Handler) DeleteSystem(c *gin.Context) {
	if _, _, err := h.store.DeleteSystem(c.Request.Context(), c.Param("id")); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
