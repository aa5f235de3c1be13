package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	admissionledger "flightsurety/contexts/insurance-pool/admission-ledger"
	metricsadapter "flightsurety/contexts/insurance-pool/admission-ledger/adapters/metrics"
	postgresadapter "flightsurety/contexts/insurance-pool/admission-ledger/adapters/postgres"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
	"flightsurety/internal/platform/config"
	"flightsurety/internal/platform/db"
	"flightsurety/internal/platform/httpserver"
	"flightsurety/internal/platform/messaging"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	module   admissionledger.Module
	bus      *messaging.Bus
	database *db.Database
	// relayInProcess is set for the memory store, whose outbox only this
	// process can see.
	relayInProcess bool
	logger         *slog.Logger
}

type WorkerApp struct {
	module   admissionledger.Module
	bus      *messaging.Bus
	database *db.Database
	logger   *slog.Logger
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type uuidGenerator struct{}

func (uuidGenerator) NewID(_ context.Context) (string, error) { return uuid.NewString(), nil }

func BuildAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("service", cfg.ServiceName, "process", "api")

	var (
		registry *prometheus.Registry
		metrics  ports.Metrics
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = metricsadapter.NewRecorder(registry)
	}

	bus := messaging.NewBus(cfg.Brokers, logger)
	module, database, err := buildModule(ctx, cfg, metrics, bus, logger)
	if err != nil {
		return nil, err
	}
	if err := seed(ctx, cfg, module, logger); err != nil {
		_ = database.Close()
		return nil, err
	}

	var gatherer prometheus.Gatherer
	if registry != nil {
		gatherer = registry
	}
	return &APIApp{
		server:         httpserver.New(module, gatherer, logger, normalizeAddr(cfg.HTTPPort)),
		module:         module,
		bus:            bus,
		database:       database,
		relayInProcess: cfg.StoreDriver == config.StoreMemory,
		logger:         logger,
	}, nil
}

func BuildWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("service", cfg.ServiceName, "process", "worker")
	if cfg.StoreDriver == config.StoreMemory {
		return nil, errors.New("worker needs a shared store; memory outbox is relayed by the api process")
	}

	bus := messaging.NewBus(cfg.Brokers, logger)
	module, database, err := buildModule(ctx, cfg, nil, bus, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		module:   module,
		bus:      bus,
		database: database,
		logger:   logger,
	}, nil
}

func buildModule(
	ctx context.Context,
	cfg config.Config,
	metrics ports.Metrics,
	bus *messaging.Bus,
	logger *slog.Logger,
) (admissionledger.Module, *db.Database, error) {
	if cfg.StoreDriver == config.StoreMemory {
		module := admissionledger.NewInMemoryModule(cfg.OwnerID, cfg.AuthorizedCallers, logger)
		module.Handler.Ledger.Metrics = metrics
		module.Relay.Publisher = bus
		module.Notifications.Subscriber = bus
		module.Relay.BatchSize = cfg.RelayBatchSize
		module.Relay.Interval = cfg.RelayInterval
		return module, nil, nil
	}

	var (
		database *db.Database
		err      error
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		database, err = db.ConnectPostgres(cfg.PostgresDSN)
	case config.StoreSQLite:
		database, err = db.ConnectSQLite(cfg.SQLitePath)
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return admissionledger.Module{}, nil, err
	}

	repo := postgresadapter.NewRepository(database.DB, logger)
	if err := repo.Migrate(ctx); err != nil {
		_ = database.Close()
		return admissionledger.Module{}, nil, err
	}
	if err := repo.EnsureLedger(ctx, cfg.OwnerID, cfg.AuthorizedCallers, time.Now().UTC()); err != nil {
		_ = database.Close()
		return admissionledger.Module{}, nil, err
	}
	module := admissionledger.NewModule(admissionledger.Dependencies{
		Repository:    repo,
		Outbox:        repo,
		Publisher:     bus,
		Subscriber:    bus,
		Clock:         systemClock{},
		IDGen:         uuidGenerator{},
		Metrics:       metrics,
		RelayBatch:    cfg.RelayBatchSize,
		RelayInterval: cfg.RelayInterval,
		Logger:        logger,
	})
	return module, database, nil
}

// seed admits the configured first airline. Restarts against a persistent
// store replay the same seed harmlessly.
func seed(ctx context.Context, cfg config.Config, module admissionledger.Module, logger *slog.Logger) error {
	if cfg.SeedAirlineID == "" {
		return nil
	}
	result, err := module.Handler.Ledger.RegisterFirst(ctx, commands.SeedCommand{
		OwnerID:   cfg.OwnerID,
		AirlineID: cfg.SeedAirlineID,
		Name:      cfg.SeedAirlineName,
	})
	if err != nil {
		return fmt.Errorf("seed airline %s: %w", cfg.SeedAirlineID, err)
	}
	logger.Info("seed airline ready",
		"event", "bootstrap_seed_ready",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"airline_id", result.Participant.Identity,
		"replayed", result.Replayed,
	)
	return nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"relay_in_process", a.relayInProcess,
		"brokers", a.bus.Brokers(),
	)
	if !a.relayInProcess {
		return a.server.Start(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := a.module.Notifications.Start(ctx); err != nil {
		return err
	}
	defer a.bus.Wait()
	relayDone := make(chan error, 1)
	go func() {
		relayDone <- a.module.Relay.Run(ctx)
	}()
	err := a.server.Start(ctx)
	cancel()
	if relayErr := <-relayDone; err == nil {
		err = relayErr
	}
	return err
}

func (a *APIApp) Close() error {
	return a.database.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.module.Relay.Interval.String(),
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.module.Notifications.Start(ctx); err != nil {
		return err
	}
	err := w.module.Relay.Run(ctx)
	cancel()
	w.bus.Wait()
	return err
}

func (w *WorkerApp) Close() error {
	return w.database.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
