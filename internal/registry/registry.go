package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/models"
)

// Registry holds the current ordered set of known cameras. Pollers snapshot
// it at the start of each cycle, so a camera added between cycles is picked
// up on the next tick and a removed one is never probed again once the
// removal is observed.
type Registry struct {
	mu        sync.RWMutex
	cameras   []models.Camera
	directory *Directory
}

func New(directory *Directory) *Registry {
	return &Registry{directory: directory}
}

// List returns an ordered snapshot copy of the registered cameras.
func (r *Registry) List() []models.Camera {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Camera, len(r.cameras))
	copy(out, r.cameras)
	return out
}

// Contains reports whether a camera id is currently registered. The status
// poller uses it to discard probe results that land after removal.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cam := range r.cameras {
		if cam.ID == id {
			return true
		}
	}
	return false
}

// Get returns the camera with the given id.
func (r *Registry) Get(id string) (models.Camera, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cam := range r.cameras {
		if cam.ID == id {
			return cam, true
		}
	}
	return models.Camera{}, false
}

// Add appends a camera. Camera ids are unique within the registry.
func (r *Registry) Add(camera models.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cam := range r.cameras {
		if cam.ID == camera.ID {
			return fmt.Errorf("camera %s already registered", camera.ID)
		}
	}
	r.cameras = append(r.cameras, camera)

	log.Info().
		Str("camera_id", camera.ID).
		Str("base_address", camera.BaseAddress).
		Msg("Camera registered")
	return nil
}

// Remove deletes a camera by id. Returns false when the id is unknown.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, cam := range r.cameras {
		if cam.ID == id {
			r.cameras = append(r.cameras[:i], r.cameras[i+1:]...)
			log.Info().Str("camera_id", id).Msg("Camera removed from registry")
			return true
		}
	}
	return false
}

// Replace swaps in a new camera set, preserving the given order.
func (r *Registry) Replace(cameras []models.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cameras = make([]models.Camera, len(cameras))
	copy(r.cameras, cameras)
}

// Len returns the number of registered cameras.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cameras)
}

// Refresh reloads the camera set from the directory service. In-flight
// probes of cameras that survive the refresh are unaffected.
func (r *Registry) Refresh(ctx context.Context) error {
	if r.directory == nil {
		return nil
	}

	cameras, err := r.directory.ListCameras(ctx)
	if err != nil {
		return fmt.Errorf("refresh registry: %w", err)
	}

	r.Replace(cameras)
	log.Info().Int("cameras", len(cameras)).Msg("Registry refreshed from directory")
	return nil
}

// Directory returns the directory client, nil when none is configured.
func (r *Registry) Directory() *Directory {
	return r.directory
}
