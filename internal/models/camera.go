package models

import (
	"time"
)

// CameraStatus represents the observed camera health status
type CameraStatus string

const (
	CameraStatusOnline  CameraStatus = "online"
	CameraStatusOffline CameraStatus = "offline"
	CameraStatusUnknown CameraStatus = "unknown"
)

// String returns the string representation of CameraStatus
func (cs CameraStatus) String() string {
	return string(cs)
}

// IsValid checks if the camera status is valid
func (cs CameraStatus) IsValid() bool {
	switch cs {
	case CameraStatusOnline, CameraStatusOffline, CameraStatusUnknown:
		return true
	default:
		return false
	}
}

// Camera represents a single registered camera endpoint
type Camera struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BaseAddress string `json:"base_address"`
}

// CameraState is the latest probe result for one camera. At most one state
// is kept per camera id; the most recently applied probe wins.
type CameraState struct {
	CameraID      string       `json:"camera_id"`
	Status        CameraStatus `json:"status"`
	LastCheckedAt time.Time    `json:"last_checked_at"`
}

// CameraRequest for API
type CameraRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	BaseAddress string `json:"base_address" binding:"required"`
}

// CameraResponse for API
type CameraResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	BaseAddress   string       `json:"base_address"`
	Status        CameraStatus `json:"status"`
	LastCheckedAt time.Time    `json:"last_checked_at,omitzero"`
}

// DashboardSummary mirrors the headline counters shown by dashboard consumers
type DashboardSummary struct {
	TotalCameras      int `json:"total_cameras"`
	OnlineCameras     int `json:"online_cameras"`
	TotalIncidents    int `json:"total_incidents"`
	OpenIncidents     int `json:"open_incidents"`
	ResolvedIncidents int `json:"resolved_incidents"`
}
