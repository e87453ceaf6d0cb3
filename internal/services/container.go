package services

import (
	"context"

	"sentinel-monitor-go/internal/classifier"
	"sentinel-monitor-go/internal/config"
	"sentinel-monitor-go/internal/models"
	"sentinel-monitor-go/internal/monitor"
	"sentinel-monitor-go/internal/poller"
	"sentinel-monitor-go/internal/registry"
	"sentinel-monitor-go/internal/services/messaging"
	"sentinel-monitor-go/internal/store"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	Registry     *registry.Registry
	Store        *store.Store
	MessagingSvc *messaging.Service
	Monitor      *monitor.Monitor
}

// NewServiceContainer wires up one monitoring session. There is no ambient
// global state: everything consumers need hangs off the container.
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	directory := registry.NewDirectory(cfg.DirectoryURL, cfg.ProbeTimeout)
	reg := registry.New(directory)
	st := store.New()
	cls := classifier.New(classifier.DefaultRules())

	// Incident fan-out is optional; without NATS the pipeline still stores
	// everything locally.
	var messagingSvc *messaging.Service
	var publisher models.MessagePublisher
	if cfg.NatsURL != "" {
		svc, err := messaging.NewService(cfg)
		if err != nil {
			return nil, err
		}
		messagingSvc = svc
		publisher = svc
	}

	statusPoller := poller.NewStatusPoller(cfg, reg, st)
	alertPoller := poller.NewAlertPoller(cfg, cls, st, publisher)

	return &ServiceContainer{
		Config:       cfg,
		Registry:     reg,
		Store:        st,
		MessagingSvc: messagingSvc,
		Monitor:      monitor.New(cfg, reg, st, statusPoller, alertPoller),
	}, nil
}

// Shutdown gracefully shuts down all services
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Monitor != nil {
		sc.Monitor.Stop()
	}

	if sc.MessagingSvc != nil {
		if err := sc.MessagingSvc.Shutdown(ctx); err != nil {
			return err
		}
	}

	return nil
}
