package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"status-pulse-backend/internal/model"
	"status-pulse-backend/internal/parse"
	"status-pulse-backend/internal/projection"
	"status-pulse-backend/internal/timeline"
)

// legendItem describes one status in the legend and the entry form.
type legendItem struct {
	Name       model.AvailabilityStatus `json:"name"`
	Selectable bool                     `json:"selectable"`
	Color      string                   `json:"color"`
}

type timelineResponse struct {
	parse.Filter
	Timeline timeline.Timeline `json:"timeline"`
}

// dashboardSystem is one bar of the dashboard.
type dashboardSystem struct {
	model.System
	EntryCount int                    `json:"entryCount"`
	Ranges     []timeline.StatusRange `json:"ranges"`
	Segments   []timeline.Segment     `json:"segments"`
}

type dashboardGroup struct {
	Category model.Category    `json:"category"`
	Systems  []dashboardSystem `json:"systems"`
}

type dashboardResponse struct {
	parse.Filter
	Legend []legendItem     `json:"legend"`
	Groups []dashboardGroup `json:"groups"`
}

func legend() []legendItem {
	items := make([]legendItem, 0, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		items = append(items, legendItem{Name: s, Selectable: s.Selectable(), Color: s.Color()})
	}
	return items
}

func (h *Handler) filterFrom(c *gin.Context) parse.Filter {
	return parse.DateFilter(c.Query("month"), c.Query("start"), c.Query("end"), h.today(), h.dashboard.WindowDays, h.dashboard.MaxRangeDays)
}

// GetStatuses handles GET /api/statuses.
func (h *Handler) GetStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, legend())
}

// GetMonths handles GET /api/months.
func (h *Handler) GetMonths(c *gin.Context) {
	c.JSON(http.StatusOK, parse.MonthOptions(h.today(), h.dashboard.MonthOptions))
}

// GetSystemTimeline handles GET /api/systems/:id/timeline.
func (h *Handler) GetSystemTimeline(c *gin.Context) {
	id := c.Param("id")
	snap := h.store.Snapshot()
	if !hasSystem(snap.Systems, id) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "System not found"})
		return
	}

	filter := h.filterFrom(c)
	c.JSON(http.StatusOK, timelineResponse{
		Filter:   filter,
		Timeline: h.engine.Timeline(id, snap.StatusEntries, filter.Range, snap.Revision),
	})
}

// GetDashboard handles GET /api/dashboard. Systems whose category is missing
// are collected into a trailing Uncategorised group.
func (h *Handler) GetDashboard(c *gin.Context) {
	snap := h.store.Snapshot()
	filter := h.filterFrom(c)
	counts := make(map[string]int, len(snap.Systems))
	for systemID, entries := range projection.EntriesBySystem(snap.StatusEntries) {
		counts[systemID] = len(entries)
	}

	bars := func(systems []model.System) []dashboardSystem {
		out := make([]dashboardSystem, 0, len(systems))
		for _, s := range systems {
			tl := h.engine.Timeline(s.ID, snap.StatusEntries, filter.Range, snap.Revision)
			out = append(out, dashboardSystem{
				System:     s,
				EntryCount: counts[s.ID],
				Ranges:     tl.Ranges,
				Segments:   tl.Segments,
			})
		}
		return out
	}

	groups := make([]dashboardGroup, 0, len(snap.Categories)+1)
	for _, g := range projection.GroupsWithUncategorised(snap.Categories, snap.Systems) {
		groups = append(groups, dashboardGroup{Category: g.Category, Systems: bars(g.Systems)})
	}

	c.JSON(http.StatusOK, dashboardResponse{Filter: filter, Legend: legend(), Groups: groups})
}
