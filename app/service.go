// Package app wires the configuration into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fleetsense/autocare/api"
	"github.com/fleetsense/autocare/api/auth"
	"github.com/fleetsense/autocare/api/catalog"
	"github.com/fleetsense/autocare/api/maintenance"
	"github.com/fleetsense/autocare/api/predictions"
	"github.com/fleetsense/autocare/api/vehicles"
	"github.com/fleetsense/autocare/config"
	"github.com/fleetsense/autocare/core/estimate"
	coremetrics "github.com/fleetsense/autocare/core/metrics"
	"github.com/fleetsense/autocare/infra/logger"
	"github.com/fleetsense/autocare/infra/metrics"
	"github.com/fleetsense/autocare/infra/modelstore"
	"github.com/fleetsense/autocare/infra/mqtt"
	"github.com/fleetsense/autocare/infra/storage"
	"github.com/fleetsense/autocare/internal/eventbus"
)

// Service owns every long-lived component of the prediction backend.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	store     *storage.Store
	sink      coremetrics.MetricsSink
	buses     *eventbus.Buses
	telemetry *mqtt.TelemetrySubscriber
	server    *http.Server
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logger.New("service")

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if cfg.Storage.CatalogSeed != "" {
		n, err := SeedCatalog(context.Background(), store.Catalog, cfg.Storage.CatalogSeed)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Infof("catalog seeded, %d new entries", n)
	}

	sink, err := metrics.NewSinkFromConfig(cfg.Metrics)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	buses := eventbus.New()
	engine := estimate.NewEngine(modelstore.NewFileStore(cfg.Models.Dir, logger.New("modelstore")), logger.New("engine"))
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMin)

	handlers := api.Handlers{
		Auth:        auth.NewHandler(store.Users, issuer, logger.New("auth")),
		Vehicles:    vehicles.NewHandler(store.Vehicles, logger.New("vehicles")),
		Maintenance: maintenance.NewHandler(store.History, store.Vehicles, logger.New("maintenance")),
		Catalog:     catalog.NewHandler(store.Catalog, logger.New("catalog")),
		Predictions: predictions.NewHandler(engine, store.Vehicles, store.History, store.Predictions,
			buses.Predictions, cfg.Intervals, logger.New("predictions")),
	}

	svc := &Service{
		cfg:   cfg,
		log:   log,
		store: store,
		sink:  sink,
		buses: buses,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.NewRouter(handlers, issuer, logger.New("http")),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.MQTT.Enabled {
		sub, err := mqtt.NewTelemetrySubscriber(cfg.MQTT, buses.Odometer, logger.New("mqtt"))
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt telemetry: %w", err)
		}
		svc.telemetry = sub
	}

	return svc, nil
}

// Run starts the consumers and the HTTP server, blocking until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consumePredictions(s.buses.Predictions.Subscribe())
	go s.consumeOdometer(ctx, s.buses.Odometer.Subscribe())

	if s.cfg.Metrics.PrometheusEnabled {
		addr := s.cfg.Metrics.PrometheusPort
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Service) consumePredictions(events <-chan coremetrics.PredictionEvent) {
	for ev := range events {
		if err := s.sink.RecordPrediction(ev); err != nil {
			s.log.Warnf("record prediction: %v", err)
		}
	}
}

func (s *Service) consumeOdometer(ctx context.Context, events <-chan eventbus.OdometerEvent) {
	for ev := range events {
		if err := s.store.Vehicles.AdvanceMileage(ctx, ev.VehicleID, ev.OdometerKm); err != nil {
			s.log.Warnf("advance mileage for %s: %v", ev.VehicleID, err)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.telemetry != nil {
		s.telemetry.Close()
	}
	s.buses.Close()
	var errs []error
	if err := s.sink.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
