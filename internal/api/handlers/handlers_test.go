package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

func testRouter(reg *registry.Registry, st *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	cameraHandler := NewCameraHandler(reg, st)
	incidentHandler := NewIncidentHandler(st)
	dashboardHandler := NewDashboardHandler(reg, st)
	healthHandler := NewHealthHandler("monitor-test", "0.0.0")

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/cameras", cameraHandler.ListCameras)
	router.POST("/cameras", cameraHandler.AddCamera)
	router.DELETE("/cameras/:id", cameraHandler.RemoveCamera)
	router.GET("/incidents", incidentHandler.ListIncidents)
	router.PUT("/incidents/:id/status", incidentHandler.SetStatus)
	router.GET("/dashboard/summary", dashboardHandler.Summary)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := doRequest(testRouter(registry.New(nil), store.New()), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "monitor-test", resp.MonitorID)
}

func TestListCamerasMergesStatus(t *testing.T) {
	reg := registry.New(nil)
	st := store.New()
	require.NoError(t, reg.Add(models.Camera{ID: "1", Name: "Lobby", BaseAddress: "http://cam-1"}))
	require.NoError(t, reg.Add(models.Camera{ID: "2", Name: "Gate", BaseAddress: "http://cam-2"}))
	st.SetCameraStatus("1", models.CameraStatusOnline, time.Now())

	w := doRequest(testRouter(reg, st), http.MethodGet, "/cameras", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp []models.CameraResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, models.CameraStatusOnline, resp[0].Status)
	// Never probed: reported unknown, not offline.
	assert.Equal(t, models.CameraStatusUnknown, resp[1].Status)
}

func TestAddAndRemoveCamera(t *testing.T) {
	reg := registry.New(nil)
	st := store.New()
	router := testRouter(reg, st)

	w := doRequest(router, http.MethodPost, "/cameras", `{"id":"1","name":"Lobby","base_address":"http://cam-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, reg.Contains("1"))

	// Duplicate id conflicts.
	w = doRequest(router, http.MethodPost, "/cameras", `{"id":"1","name":"Clone","base_address":"http://cam-9"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Missing fields fail binding.
	w = doRequest(router, http.MethodPost, "/cameras", `{"id":"2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodDelete, "/cameras/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, reg.Contains("1"))

	w = doRequest(router, http.MethodDelete, "/cameras/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIncidentsFilter(t *testing.T) {
	st := store.New()
	resolved, _ := st.Ingest(models.IncidentDraft{Type: "gun", Severity: models.IncidentSeverityCritical, DetectedAt: time.Now()})
	st.Ingest(models.IncidentDraft{Type: "cell_phone", Severity: models.IncidentSeverityHigh, DetectedAt: time.Now()})
	st.SetStatus(resolved.ID, models.IncidentStatusResolved)
	router := testRouter(registry.New(nil), st)

	w := doRequest(router, http.MethodGet, "/incidents", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "cell_phone", all[0].Type) // newest first

	w = doRequest(router, http.MethodGet, "/incidents?status=resolved", "")
	require.Equal(t, http.StatusOK, w.Code)
	var filtered []models.Incident
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "gun", filtered[0].Type)

	w = doRequest(router, http.MethodGet, "/incidents?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetIncidentStatus(t *testing.T) {
	st := store.New()
	incident, _ := st.Ingest(models.IncidentDraft{Type: "gun", Severity: models.IncidentSeverityCritical, DetectedAt: time.Now()})
	router := testRouter(registry.New(nil), st)

	w := doRequest(router, http.MethodPut, "/incidents/"+incident.ID+"/status", `{"status":"reviewing"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.IncidentStatusReviewing, st.Incidents()[0].Status)

	w = doRequest(router, http.MethodPut, "/incidents/no-such-id/status", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.IncidentStatusReviewing, st.Incidents()[0].Status)

	w = doRequest(router, http.MethodPut, "/incidents/"+incident.ID+"/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	reg := registry.New(nil)
	st := store.New()
	require.NoError(t, reg.Add(models.Camera{ID: "1"}))
	require.NoError(t, reg.Add(models.Camera{ID: "2"}))
	st.SetCameraStatus("1", models.CameraStatusOnline, time.Now())
	st.Ingest(models.IncidentDraft{Type: "gun", Severity: models.IncidentSeverityCritical, DetectedAt: time.Now()})

	w := doRequest(testRouter(reg, st), http.MethodGet, "/dashboard/summary", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.DashboardSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalCameras)
	assert.Equal(t, 1, resp.OnlineCameras)
	assert.Equal(t, 1, resp.OpenIncidents)
}
