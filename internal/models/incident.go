package models

import (
	"time"
)

// IncidentSeverity represents the severity tier of an incident
type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "low"
	IncidentSeverityMedium   IncidentSeverity = "medium"
	IncidentSeverityHigh     IncidentSeverity = "high"
	IncidentSeverityCritical IncidentSeverity = "critical"
)

// IncidentStatus represents the review state of an incident
type IncidentStatus string

const (
	IncidentStatusNew           IncidentStatus = "new"
	IncidentStatusReviewing     IncidentStatus = "reviewing"
	IncidentStatusResolved      IncidentStatus = "resolved"
	IncidentStatusFalsePositive IncidentStatus = "false_positive"
)

// IsValid checks if the incident status is valid
func (is IncidentStatus) IsValid() bool {
	switch is {
	case IncidentStatusNew, IncidentStatusReviewing, IncidentStatusResolved, IncidentStatusFalsePositive:
		return true
	default:
		return false
	}
}

// Incident is a typed, severity-ranked record produced from a raw detection
// message. Incidents are never deleted during a monitoring session; only
// Status changes after creation, and only through an operator action.
type Incident struct {
	ID         string           `json:"id"`
	CameraID   string           `json:"camera_id,omitempty"` // empty: feed is not camera-scoped
	DetectedAt time.Time        `json:"detected_at"`
	Type       string           `json:"type"`
	Severity   IncidentSeverity `json:"severity"`
	Status     IncidentStatus   `json:"status"`
	RawMessage string           `json:"raw_message"`
}

// IncidentDraft holds the classifier output for one raw message, before the
// store assigns an id and appends it to the timeline.
type IncidentDraft struct {
	Type       string
	Severity   IncidentSeverity
	RawMessage string
	DetectedAt time.Time
}

// IncidentStatusRequest for API
type IncidentStatusRequest struct {
	Status IncidentStatus `json:"status" binding:"required"`
}
