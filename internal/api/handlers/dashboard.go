package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

type DashboardHandler struct {
	registry *registry.Registry
	store    *store.Store
}

func NewDashboardHandler(reg *registry.Registry, st *store.Store) *DashboardHandler {
	return &DashboardHandler{registry: reg, store: st}
}

// Summary returns the dashboard headline counters
// @Summary Dashboard summary
// @Description Camera and incident counters for the dashboard view
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardSummary
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Summary(h.registry.Len()))
}
