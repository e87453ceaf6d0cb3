package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/classifier"
	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/store"
)

// feedResponse is the alert feed's wire shape.
type feedResponse struct {
	Message string `json:"message"`
}

// AlertPoller fetches the latest raw detection message from the feed on a
// fixed interval and feeds positive classifications into the store. A failed
// or empty tick is invisible: logged, skipped, retried next tick.
type AlertPoller struct {
	feedURL    string
	classifier *classifier.Classifier
	store      *store.Store
	publisher  models.MessagePublisher
	subject    string
	client     *http.Client
	interval   time.Duration
	timeout    time.Duration

	// Cooldown suppresses a repeat incident of the same type while the
	// underlying condition persists across consecutive ticks.
	cooldown   time.Duration
	cooldownMu sync.Mutex
	lastSent   map[string]time.Time
}

func NewAlertPoller(cfg *config.Config, cls *classifier.Classifier, st *store.Store, publisher models.MessagePublisher) *AlertPoller {
	return &AlertPoller{
		feedURL:    cfg.AlertFeedURL,
		classifier: cls,
		store:      st,
		publisher:  publisher,
		subject:    cfg.AlertsSubject,
		client:     &http.Client{Timeout: cfg.ProbeTimeout},
		interval:   cfg.AlertPollInterval,
		timeout:    cfg.ProbeTimeout,
		cooldown:   cfg.AlertsCooldown,
		lastSent:   make(map[string]time.Time),
	}
}

// Run drives the feed poll loop until ctx is cancelled.
func (p *AlertPoller) Run(ctx context.Context) {
	log.Info().
		Str("feed_url", p.feedURL).
		Dur("interval", p.interval).
		Dur("cooldown", p.cooldown).
		Msg("Alert poller started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Alert poller stopped")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one fetch-classify-ingest pass. All failure paths resolve here;
// nothing propagates to the loop.
func (p *AlertPoller) Tick(ctx context.Context) {
	message, err := p.fetchMessage(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Alert feed fetch failed")
		return
	}

	draft, ok := p.classifier.Classify(message)
	if !ok {
		return
	}

	if !p.checkCooldown(draft.Type) {
		log.Debug().Str("type", draft.Type).Msg("Incident suppressed by cooldown")
		return
	}

	if ctx.Err() != nil {
		return
	}

	incident, ok := p.store.Ingest(draft)
	if !ok {
		return
	}
	p.updateCooldown(draft.Type)

	if p.publisher != nil {
		if err := p.publisher.Publish(p.subject, incident); err != nil {
			log.Warn().
				Err(err).
				Str("incident_id", incident.ID).
				Msg("Failed to publish incident")
		}
	}
}

func (p *AlertPoller) fetchMessage(ctx context.Context) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("alert feed returned %s", resp.Status)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", fmt.Errorf("decode feed response: %w", err)
	}
	return feed.Message, nil
}

// checkCooldown reports whether enough time has passed since the last
// incident of this type. A zero cooldown disables suppression.
func (p *AlertPoller) checkCooldown(incidentType string) bool {
	if p.cooldown == 0 {
		return true
	}

	p.cooldownMu.Lock()
	defer p.cooldownMu.Unlock()

	last, exists := p.lastSent[incidentType]
	if !exists {
		return true
	}
	return time.Since(last) >= p.cooldown
}

func (p *AlertPoller) updateCooldown(incidentType string) {
	if p.cooldown == 0 {
		return
	}

	p.cooldownMu.Lock()
	defer p.cooldownMu.Unlock()

	p.lastSent[incidentType] = time.Now()
}
