package monitor

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/poller"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/store"
)

// Monitor owns one monitoring session: the poll loops and their lifetime.
// Stopping the session cancels both loops and seals the store, so no probe
// or feed result lands after teardown.
type Monitor struct {
	cfg          *config.Config
	registry     *registry.Registry
	store        *store.Store
	statusPoller *poller.StatusPoller
	alertPoller  *poller.AlertPoller

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func New(cfg *config.Config, reg *registry.Registry, st *store.Store, status *poller.StatusPoller, alerts *poller.AlertPoller) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		cfg:          cfg,
		registry:     reg,
		store:        st,
		statusPoller: status,
		alertPoller:  alerts,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start loads the camera set from the directory and launches both poll
// loops. A directory failure at startup is not fatal: the registry starts
// empty and can be refreshed later.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil
	}
	m.started = true

	if err := m.registry.Refresh(m.ctx); err != nil {
		log.Warn().Err(err).Msg("Initial registry refresh failed, starting with empty registry")
	}

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.statusPoller.Run(m.ctx)
	}()
	go func() {
		defer m.wg.Done()
		m.alertPoller.Run(m.ctx)
	}()

	log.Info().
		Str("monitor_id", m.cfg.MonitorID).
		Int("cameras", m.registry.Len()).
		Msg("Monitoring session started")
	return nil
}

// Stop tears down the session: cancels both poll loops, waits for them to
// exit and closes the store.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.Info().Msg("Stopping monitoring session...")

	m.cancel()
	m.wg.Wait()
	m.store.Close()

	log.Info().Msg("Monitoring session stopped")
}

// Registry exposes the session's camera registry.
func (m *Monitor) Registry() *registry.Registry {
	return m.registry
}

// Store exposes the session's state container.
func (m *Monitor) Store() *store.Store {
	return m.store
}
