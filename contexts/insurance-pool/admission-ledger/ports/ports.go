package ports

import (
	"context"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	contractsv1 "flightsurety/contracts/gen/events/v1"
)

// Tx is the view of ledger state available inside one serialised unit of
// work. Writes become visible to other callers only when the enclosing
// Atomic call returns nil.
type Tx interface {
	LoadLedger(ctx context.Context) (entities.LedgerState, error)
	SaveLedger(ctx context.Context, state entities.LedgerState) error

	GetParticipant(ctx context.Context, identity string) (entities.Participant, bool, error)
	SaveParticipant(ctx context.Context, participant entities.Participant) error
	ListParticipants(ctx context.Context) ([]entities.Participant, error)

	GetVoteRecord(ctx context.Context, candidate string) (entities.VoteRecord, bool, error)
	SaveVoteRecord(ctx context.Context, record entities.VoteRecord) error
	DeleteVoteRecord(ctx context.Context, candidate string) error
	ListVoteRecords(ctx context.Context) ([]entities.VoteRecord, error)

	IsCallerAuthorized(ctx context.Context, callerID string) (bool, error)
	SetCallerAuthorized(ctx context.Context, callerID string, authorized bool, changedAt time.Time) error

	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

// Repository serialises every Atomic call against every other one; Read runs
// against a consistent snapshot and must not write.
type Repository interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Read(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Metrics receives operation outcomes after a unit of work settles.
type Metrics interface {
	ObserveOperation(operation string, outcome string)
	ObserveCounts(numAirlines uint64, numFundedAirlines uint64)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
