package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sentinel-monitor-go/internal/models"
)

// Directory is a client for the external camera directory service
// (GET/POST/DELETE /api/cameras). The directory owns camera records; the
// registry only mirrors them for polling.
type Directory struct {
	baseURL string
	client  *http.Client
}

// directoryCamera is the directory's wire shape for one camera.
type directoryCamera struct {
	ID        json.Number `json:"id"`
	Name      string      `json:"name"`
	StreamURL string      `json:"streamUrl"`
	Location  string      `json:"location"`
}

type directoryCameraRequest struct {
	Name      string `json:"name"`
	StreamURL string `json:"streamUrl"`
	Location  string `json:"location"`
}

func NewDirectory(baseURL string, timeout time.Duration) *Directory {
	return &Directory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ListCameras fetches the full camera set from the directory.
func (d *Directory) ListCameras(ctx context.Context) ([]models.Camera, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/api/cameras", nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned %s", resp.Status)
	}

	var entries []directoryCamera
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}

	cameras := make([]models.Camera, 0, len(entries))
	for _, entry := range entries {
		cameras = append(cameras, models.Camera{
			ID:          entry.ID.String(),
			Name:        entry.Name,
			BaseAddress: entry.StreamURL,
		})
	}
	return cameras, nil
}

// CreateCamera registers a new camera with the directory.
func (d *Directory) CreateCamera(ctx context.Context, camera models.Camera) error {
	body, err := json.Marshal(directoryCameraRequest{
		Name:      camera.Name,
		StreamURL: camera.BaseAddress,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/cameras", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory returned %s", resp.Status)
	}
	return nil
}

// DeleteCamera removes a camera from the directory.
func (d *Directory) DeleteCamera(ctx context.Context, id string) error {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return fmt.Errorf("directory camera ids are numeric, got %q", id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, d.baseURL+"/api/cameras/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory returned %s", resp.Status)
	}
	return nil
}
