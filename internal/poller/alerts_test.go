package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-monitor-go/internal/classifier"
	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/store"
)

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
	err      error
}

func (m *mockPublisher) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, data)
	return nil
}

func (m *mockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

func feedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func alertConfig(feedURL string, cooldown time.Duration) *config.Config {
	return &config.Config{
		AlertFeedURL:      feedURL,
		AlertPollInterval: 10 * time.Millisecond,
		ProbeTimeout:      200 * time.Millisecond,
		AlertsCooldown:    cooldown,
		AlertsSubject:     "incidents",
	}
}

func TestTickIngestsPositiveDetection(t *testing.T) {
	srv := feedServer(t, `{"message":"Gun detected!"}`, http.StatusOK)
	st := store.New()
	pub := &mockPublisher{}

	p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, pub)
	p.Tick(context.Background())

	incidents := st.Incidents()
	require.Len(t, incidents, 1)
	assert.Equal(t, "gun", incidents[0].Type)
	assert.Equal(t, models.IncidentSeverityCritical, incidents[0].Severity)
	assert.Equal(t, models.IncidentStatusNew, incidents[0].Status)
	assert.Equal(t, "Gun detected!", incidents[0].RawMessage)

	require.Equal(t, 1, pub.Count())
	assert.Equal(t, "incidents", pub.subjects[0])
	published, ok := pub.payloads[0].(models.Incident)
	require.True(t, ok)
	assert.Equal(t, incidents[0].ID, published.ID)
}

func TestTickSkipsNegativeAndNonMatches(t *testing.T) {
	for _, body := range []string{
		`{"message":"No threat detected"}`,
		`{"message":"all clear"}`,
		`{"message":""}`,
		`{}`,
		`not json`,
	} {
		srv := feedServer(t, body, http.StatusOK)
		st := store.New()

		p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, nil)
		p.Tick(context.Background())

		assert.Empty(t, st.Incidents(), "body %q must not produce an incident", body)
	}
}

func TestTickSkipsFeedFailures(t *testing.T) {
	srv := feedServer(t, `oops`, http.StatusBadGateway)
	st := store.New()

	p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, nil)
	p.Tick(context.Background())

	assert.Empty(t, st.Incidents())
}

func TestCooldownSuppressesRepeats(t *testing.T) {
	srv := feedServer(t, `{"message":"Gun detected!"}`, http.StatusOK)
	st := store.New()

	p := NewAlertPoller(alertConfig(srv.URL, time.Minute), classifier.New(classifier.DefaultRules()), st, nil)
	p.Tick(context.Background())
	p.Tick(context.Background())
	p.Tick(context.Background())

	assert.Len(t, st.Incidents(), 1)
}

func TestCooldownIsPerType(t *testing.T) {
	var mu sync.Mutex
	message := `{"message":"Gun detected!"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Write([]byte(message))
	}))
	t.Cleanup(srv.Close)

	st := store.New()
	p := NewAlertPoller(alertConfig(srv.URL, time.Minute), classifier.New(classifier.DefaultRules()), st, nil)

	p.Tick(context.Background())

	mu.Lock()
	message = `{"message":"Cell phone detected!"}`
	mu.Unlock()
	p.Tick(context.Background())

	incidents := st.Incidents()
	require.Len(t, incidents, 2)
	assert.Equal(t, "cell_phone", incidents[0].Type)
	assert.Equal(t, "gun", incidents[1].Type)
}

func TestZeroCooldownDisablesSuppression(t *testing.T) {
	srv := feedServer(t, `{"message":"Gun detected!"}`, http.StatusOK)
	st := store.New()

	p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, nil)
	p.Tick(context.Background())
	p.Tick(context.Background())

	assert.Len(t, st.Incidents(), 2)
}

func TestPublishFailureDoesNotDropIncident(t *testing.T) {
	srv := feedServer(t, `{"message":"Gun detected!"}`, http.StatusOK)
	st := store.New()
	pub := &mockPublisher{err: assert.AnError}

	p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, pub)
	p.Tick(context.Background())

	assert.Len(t, st.Incidents(), 1)
}

func TestTickAfterCancelDoesNotIngest(t *testing.T) {
	srv := feedServer(t, `{"message":"Gun detected!"}`, http.StatusOK)
	st := store.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewAlertPoller(alertConfig(srv.URL, 0), classifier.New(classifier.DefaultRules()), st, nil)
	p.Tick(ctx)

	assert.Empty(t, st.Incidents())
}
