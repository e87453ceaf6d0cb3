package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

type CameraHandler struct {
	registry *registry.Registry
	store    *store.Store
}

func NewCameraHandler(reg *registry.Registry, st *store.Store) *CameraHandler {
	return &CameraHandler{
		registry: reg,
		store:    st,
	}
}

// ListCameras lists registered cameras with their live status
// @Summary List all cameras
// @Description List registered cameras merged with the latest probe results
// @Tags cameras
// @Produce json
// @Success 200 {array} models.CameraResponse
// @Router /cameras [get]
func (h *CameraHandler) ListCameras(c *gin.Context) {
	cameras := h.registry.List()
	states := h.store.CameraStates()

	out := make([]models.CameraResponse, 0, len(cameras))
	for _, cam := range cameras {
		out = append(out, cameraResponse(cam, states[cam.ID]))
	}
	c.JSON(http.StatusOK, out)
}

// GetCamera gets one camera with its live status
// @Summary Get camera details
// @Tags cameras
// @Param id path string true "Camera ID"
// @Produce json
// @Success 200 {object} models.CameraResponse
// @Failure 404 {object} ErrorResponse
// @Router /cameras/{id} [get]
func (h *CameraHandler) GetCamera(c *gin.Context) {
	id := c.Param("id")

	cam, ok := h.registry.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
		return
	}

	state, _ := h.store.CameraState(id)
	c.JSON(http.StatusOK, cameraResponse(cam, state))
}

// AddCamera registers a camera for monitoring
// @Summary Register a camera
// @Description Add a camera to the registry; it is probed starting the next poll cycle
// @Tags cameras
// @Accept json
// @Produce json
// @Param request body models.CameraRequest true "Camera"
// @Success 201 {object} models.CameraResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cameras [post]
func (h *CameraHandler) AddCamera(c *gin.Context) {
	var req models.CameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Invalid camera request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camera := models.Camera{
		ID:          req.ID,
		Name:        req.Name,
		BaseAddress: req.BaseAddress,
	}

	if err := h.registry.Add(camera); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// Best-effort upstream registration; the camera is monitored either way.
	if dir := h.registry.Directory(); dir != nil {
		if err := dir.CreateCamera(c.Request.Context(), camera); err != nil {
			log.Warn().Err(err).Str("camera_id", camera.ID).Msg("Directory registration failed")
		}
	}

	c.JSON(http.StatusCreated, cameraResponse(camera, models.CameraState{}))
}

// RemoveCamera deregisters a camera
// @Summary Remove a camera
// @Description Remove a camera; no further probes are issued for it from the next cycle on
// @Tags cameras
// @Param id path string true "Camera ID"
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /cameras/{id} [delete]
func (h *CameraHandler) RemoveCamera(c *gin.Context) {
	id := c.Param("id")

	if !h.registry.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
		return
	}
	h.store.RemoveCameraStatus(id)

	if dir := h.registry.Directory(); dir != nil {
		if err := dir.DeleteCamera(c.Request.Context(), id); err != nil {
			log.Warn().Err(err).Str("camera_id", id).Msg("Directory removal failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Camera removed"})
}

// RefreshRegistry reloads the camera set from the directory service
// @Summary Refresh the camera registry
// @Tags cameras
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 502 {object} ErrorResponse
// @Router /cameras/refresh [post]
func (h *CameraHandler) RefreshRegistry(c *gin.Context) {
	if err := h.registry.Refresh(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Registry refresh failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registry refreshed", "cameras": h.registry.Len()})
}

// cameraResponse merges a registry record with its latest probe result. A
// camera never probed reports status unknown.
func cameraResponse(cam models.Camera, state models.CameraState) models.CameraResponse {
	status := state.Status
	if status == "" {
		status = models.CameraStatusUnknown
	}
	return models.CameraResponse{
		ID:            cam.ID,
		Name:          cam.Name,
		BaseAddress:   cam.BaseAddress,
		Status:        status,
		LastCheckedAt: state.LastCheckedAt,
	}
}
