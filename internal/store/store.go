package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/models"
)

// Store holds the only shared mutable state of a monitoring session: the
// newest-first incident timeline and the per-camera status map. Every
// mutation is applied atomically under one mutex; readers get copies.
type Store struct {
	mu           sync.RWMutex
	incidents    []models.Incident
	cameraStates map[string]models.CameraState
	closed       bool
}

func New() *Store {
	return &Store{
		cameraStates: make(map[string]models.CameraState),
	}
}

// Close tears down the session store. Mutations arriving after Close, such
// as in-flight probe results, are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Ingest assigns a fresh id to the draft and prepends it to the timeline
// (head = most recent). Returns false when the store is closed.
func (s *Store) Ingest(draft models.IncidentDraft) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.Incident{}, false
	}

	incident := models.Incident{
		ID:         uuid.NewString(),
		DetectedAt: draft.DetectedAt,
		Type:       draft.Type,
		Severity:   draft.Severity,
		Status:     models.IncidentStatusNew,
		RawMessage: draft.RawMessage,
	}

	s.incidents = append([]models.Incident{incident}, s.incidents...)

	log.Info().
		Str("incident_id", incident.ID).
		Str("type", incident.Type).
		Str("severity", string(incident.Severity)).
		Msg("Incident ingested")

	return incident, true
}

// SetStatus replaces the incident's review status in place. Unknown ids are
// a no-op: the feed poller may have been torn down between the operator
// reading a snapshot and acting on it.
func (s *Store) SetStatus(id string, status models.IncidentStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	for i := range s.incidents {
		if s.incidents[i].ID == id {
			s.incidents[i].Status = status
			return true
		}
	}
	return false
}

// SetCameraStatus overwrites the prior state for the camera unconditionally
// (last-writer-wins).
func (s *Store) SetCameraStatus(cameraID string, status models.CameraStatus, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.cameraStates[cameraID] = models.CameraState{
		CameraID:      cameraID,
		Status:        status,
		LastCheckedAt: at,
	}
}

// RemoveCameraStatus drops the state entry for a camera removed from the
// registry.
func (s *Store) RemoveCameraStatus(cameraID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	delete(s.cameraStates, cameraID)
}

// Incidents returns a newest-first snapshot copy of the timeline.
func (s *Store) Incidents() []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// IncidentsByStatus returns the newest-first subset matching status.
func (s *Store) IncidentsByStatus(status models.IncidentStatus) []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Incident, 0)
	for _, incident := range s.incidents {
		if incident.Status == status {
			out = append(out, incident)
		}
	}
	return out
}

// CameraState returns the latest probe result for one camera.
func (s *Store) CameraState(cameraID string) (models.CameraState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.cameraStates[cameraID]
	return state, ok
}

// CameraStates returns a snapshot copy of the camera status map.
func (s *Store) CameraStates() map[string]models.CameraState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.CameraState, len(s.cameraStates))
	for id, state := range s.cameraStates {
		out[id] = state
	}
	return out
}

// Summary computes the dashboard counters from the current snapshot.
func (s *Store) Summary(totalCameras int) models.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := models.DashboardSummary{
		TotalCameras:   totalCameras,
		TotalIncidents: len(s.incidents),
	}
	for _, state := range s.cameraStates {
		if state.Status == models.CameraStatusOnline {
			summary.OnlineCameras++
		}
	}
	for _, incident := range s.incidents {
		switch incident.Status {
		case models.IncidentStatusNew:
			summary.OpenIncidents++
		case models.IncidentStatusResolved:
			summary.ResolvedIncidents++
		}
	}
	return summary
}
