package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

// healthResponse is the camera health endpoint's wire shape.
type healthResponse struct {
	CameraStatus string `json:"camera_status"`
}

// StatusPoller probes every registered camera's health endpoint on a fixed
// interval. Probes fan out concurrently and are isolated from each other: a
// hanging camera delays neither the cadence nor any other camera's result.
type StatusPoller struct {
	registry *registry.Registry
	store    *store.Store
	client   *http.Client
	interval time.Duration
	timeout  time.Duration
}

func NewStatusPoller(cfg *config.Config, reg *registry.Registry, st *store.Store) *StatusPoller {
	return &StatusPoller{
		registry: reg,
		store:    st,
		client:   &http.Client{Timeout: cfg.ProbeTimeout},
		interval: cfg.HealthPollInterval,
		timeout:  cfg.ProbeTimeout,
	}
}

// Run drives the poll loop until ctx is cancelled. A new cycle starts on
// every tick regardless of whether the previous cycle's probes finished;
// across cycles the probe result applied last wins per camera.
func (p *StatusPoller) Run(ctx context.Context) {
	log.Info().Dur("interval", p.interval).Msg("Status poller started")

	p.pollCycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Status poller stopped")
			return
		case <-ticker.C:
			p.pollCycle(ctx)
		}
	}
}

// pollCycle snapshots the registry and fans out one probe goroutine per
// camera. It does not wait for completions.
func (p *StatusPoller) pollCycle(ctx context.Context) {
	cameras := p.registry.List()

	log.Debug().Int("cameras", len(cameras)).Msg("Health poll cycle")

	for _, camera := range cameras {
		go p.Probe(ctx, camera)
	}
}

// Probe issues one bounded-timeout health request and resolves every outcome
// into a status update. It never reports an error to the scheduler: network
// failure, timeout, a non-success response and a malformed body all land as
// offline.
func (p *StatusPoller) Probe(ctx context.Context, camera models.Camera) {
	status, err := p.fetchStatus(ctx, camera)
	if err != nil {
		log.Debug().
			Err(err).
			Str("camera_id", camera.ID).
			Msg("Camera probe failed")
		status = models.CameraStatusOffline
	}

	p.apply(ctx, camera.ID, status)
}

func (p *StatusPoller) fetchStatus(ctx context.Context, camera models.Camera) (models.CameraStatus, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := strings.TrimRight(camera.BaseAddress, "/") + "/api/health"
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("health endpoint returned %s", resp.Status)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", fmt.Errorf("decode health response: %w", err)
	}

	if health.CameraStatus == string(models.CameraStatusOnline) {
		return models.CameraStatusOnline, nil
	}
	return models.CameraStatusOffline, nil
}

// apply writes the probe result unless the session was torn down or the
// camera was removed while the probe was in flight.
func (p *StatusPoller) apply(ctx context.Context, cameraID string, status models.CameraStatus) {
	if ctx.Err() != nil {
		return
	}

	if !p.registry.Contains(cameraID) {
		log.Debug().Str("camera_id", cameraID).Msg("Discarding probe result for removed camera")
		return
	}

	p.store.SetCameraStatus(cameraID, status, time.Now())
}
