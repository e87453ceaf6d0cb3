package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-monitor-go/internal/classifier"
	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/poller"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

func newTestMonitor(t *testing.T, feedBody string) (*Monitor, *store.Store) {
	t.Helper()

	health := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"camera_status":"online"}`))
	}))
	t.Cleanup(health.Close)

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody))
	}))
	t.Cleanup(feed.Close)

	cfg := &config.Config{
		MonitorID:          "monitor-test",
		HealthPollInterval: 10 * time.Millisecond,
		AlertPollInterval:  10 * time.Millisecond,
		ProbeTimeout:       200 * time.Millisecond,
		AlertFeedURL:       feed.URL,
		AlertsSubject:      "incidents",
	}

	reg := registry.New(nil)
	require.NoError(t, reg.Add(models.Camera{ID: "cam-1", Name: "Lobby", BaseAddress: health.URL}))

	st := store.New()
	cls := classifier.New(classifier.DefaultRules())
	m := New(cfg, reg, st,
		poller.NewStatusPoller(cfg, reg, st),
		poller.NewAlertPoller(cfg, cls, st, nil))
	return m, st
}

func TestSessionLifecycle(t *testing.T) {
	m, st := newTestMonitor(t, `{"message":"Gun detected!"}`)

	require.NoError(t, m.Start())

	// Both loops produce state within a few ticks.
	assert.Eventually(t, func() bool {
		state, ok := st.CameraState("cam-1")
		return ok && state.Status == models.CameraStatusOnline && len(st.Incidents()) > 0
	}, time.Second, 5*time.Millisecond)

	m.Stop()

	// No mutation lands after teardown.
	incidents := len(st.Incidents())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, incidents, len(st.Incidents()))

	_, ok := st.Ingest(models.IncidentDraft{Type: "late", DetectedAt: time.Now()})
	assert.False(t, ok)
}

func TestStartIsIdempotent(t *testing.T) {
	m, _ := newTestMonitor(t, `{"message":"No threat detected"}`)

	require.NoError(t, m.Start())
	require.NoError(t, m.Start())
	m.Stop()
}
