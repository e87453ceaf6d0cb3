package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/store"
)

type IncidentHandler struct {
	store *store.Store
}

func NewIncidentHandler(st *store.Store) *IncidentHandler {
	return &IncidentHandler{store: st}
}

// ListIncidents lists the incident timeline, newest first
// @Summary List incidents
// @Description List the session's incidents, optionally filtered by review status
// @Tags incidents
// @Param status query string false "Filter by status (new, reviewing, resolved, false_positive)"
// @Produce json
// @Success 200 {array} models.Incident
// @Failure 400 {object} ErrorResponse
// @Router /incidents [get]
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	filter := c.Query("status")
	if filter == "" {
		c.JSON(http.StatusOK, h.store.Incidents())
		return
	}

	status := models.IncidentStatus(filter)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter: " + filter})
		return
	}
	c.JSON(http.StatusOK, h.store.IncidentsByStatus(status))
}

// SetStatus applies an operator review transition to one incident
// @Summary Update incident status
// @Description Any review status may move to any other; unknown ids are reported as 404
// @Tags incidents
// @Param id path string true "Incident ID"
// @Param request body models.IncidentStatusRequest true "New status"
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /incidents/{id}/status [put]
func (h *IncidentHandler) SetStatus(c *gin.Context) {
	id := c.Param("id")

	var req models.IncidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + string(req.Status)})
		return
	}

	if !h.store.SetStatus(id, req.Status) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		return
	}

	log.Info().
		Str("incident_id", id).
		Str("status", string(req.Status)).
		Msg("Incident status updated")
	c.JSON(http.StatusOK, gin.H{"message": "Incident updated"})
}
