package commands

import (
	"context"
	"encoding/json"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

const (
	EventParticipantRegistered = "participant.registered"
	EventParticipantFunded     = "participant.funded"
	EventFundsContributed      = "funds.contributed"
	EventVoteRecorded          = "admission.vote_recorded"
	EventOperationalChanged    = "ledger.operational_changed"
	EventCallerAuthorized      = "ledger.caller_authorized"
	EventCallerDeauthorized    = "ledger.caller_deauthorized"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	airlineID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Airline-scoped events share a partition so consumers see admission and
	// funding for one airline in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "admission-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "airline_id",
		PartitionKey:     airlineID,
		Data:             payload,
	}, nil
}

// appendEvent stages an envelope in the same unit of work as the state change
// it describes.
func appendEvent(
	ctx context.Context,
	tx ports.Tx,
	idGen ports.IDGenerator,
	eventType string,
	airlineID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, airlineID, occurredAt, data)
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, envelope)
}
