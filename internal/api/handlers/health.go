package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	MonitorID string
	Version   string
}

func NewHealthHandler(monitorID, version string) *HealthHandler {
	return &HealthHandler{MonitorID: monitorID, Version: version}
}

type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	MonitorID string `json:"monitor_id" example:"monitor-1"`
}

type MonitorInfoResponse struct {
	MonitorID    string   `json:"monitor_id" example:"monitor-1"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the monitor is healthy and responsive
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		MonitorID: h.MonitorID,
	})
}

// @Summary Monitor information
// @Description Get basic monitor information and capabilities
// @Tags health
// @Produce json
// @Success 200 {object} MonitorInfoResponse
// @Router / [get]
func (h *HealthHandler) MonitorInfo(c *gin.Context) {
	c.JSON(http.StatusOK, MonitorInfoResponse{
		MonitorID: h.MonitorID,
		Status:    "running",
		Version:   h.Version,
		Capabilities: []string{
			"health_polling",
			"alert_ingestion",
			"incident_timeline",
		},
	})
}
