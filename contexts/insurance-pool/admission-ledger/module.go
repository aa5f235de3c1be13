package admissionledger

import (
	"log/slog"
	"time"

	httpadapter "flightsurety/contexts/insurance-pool/admission-ledger/adapters/http"
	"flightsurety/contexts/insurance-pool/admission-ledger/adapters/memory"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/queries"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/workers"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	Relay         workers.OutboxRelay
	Notifications workers.NotificationConsumer
	Store         *memory.Store
}

type Dependencies struct {
	Repository    ports.Repository
	Outbox        ports.OutboxRepository
	Publisher     ports.EventPublisher
	Subscriber    ports.EventSubscriber
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Metrics       ports.Metrics
	RelayBatch    int
	RelayInterval time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := commands.LedgerUseCase{
		Repo:    deps.Repository,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	status := queries.StatusUseCase{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Ledger: ledger,
			Status: status,
			Logger: deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.RelayBatch,
			Interval:  deps.RelayInterval,
			Logger:    deps.Logger,
		},
		Notifications: workers.NotificationConsumer{
			Subscriber: deps.Subscriber,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one memory store. The relay has no
// publisher, and notifications no subscriber, until the caller sets them.
func NewInMemoryModule(owner string, authorizedCallers []string, logger *slog.Logger) Module {
	store := memory.NewStore(owner, authorizedCallers...)
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
