package memory

import (
	"context"
	"encoding/json"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	seq       uint64
	message   ports.OutboxMessage
	published bool
}

// snapshot is the full ledger state. Atomic works on a copy and swaps it in
// only when the unit of work succeeds.
type snapshot struct {
	ledger       entities.LedgerState
	participants map[string]entities.Participant
	votes        map[string]entities.VoteRecord
	callers      map[string]bool
	outbox       map[string]outboxRecord
	outboxSeq    uint64
}

func (s snapshot) clone() snapshot {
	cloned := snapshot{
		ledger:       s.ledger,
		participants: maps.Clone(s.participants),
		votes:        make(map[string]entities.VoteRecord, len(s.votes)),
		callers:      maps.Clone(s.callers),
		outbox:       maps.Clone(s.outbox),
		outboxSeq:    s.outboxSeq,
	}
	for key, record := range s.votes {
		record.Voters = append([]string(nil), record.Voters...)
		cloned.votes[key] = record
	}
	return cloned
}

// Store is the in-process Repository used by tests and the memory driver.
type Store struct {
	mu   sync.RWMutex
	data snapshot
}

// NewStore creates an operational, unseeded ledger owned by owner.
func NewStore(owner string, authorizedCallers ...string) *Store {
	callers := make(map[string]bool, len(authorizedCallers))
	for _, caller := range authorizedCallers {
		if caller = strings.TrimSpace(caller); caller != "" {
			callers[caller] = true
		}
	}
	return &Store{
		data: snapshot{
			ledger:       entities.NewLedgerState(strings.TrimSpace(owner), time.Now()),
			participants: make(map[string]entities.Participant),
			votes:        make(map[string]entities.VoteRecord),
			callers:      callers,
			outbox:       make(map[string]outboxRecord),
		},
	}
}

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.data.clone()
	if err := fn(ctx, &tx{data: &staged}); err != nil {
		return err
	}
	s.data = staged
	return nil
}

func (s *Store) Read(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	view := s.data
	return fn(ctx, &tx{data: &view, readOnly: true})
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]outboxRecord, 0, len(s.data.outbox))
	for _, row := range s.data.outbox {
		if !row.published {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq < rows[j].seq
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID = strings.TrimSpace(outboxID)
	row, ok := s.data.outbox[outboxID]
	if !ok {
		return nil
	}
	row.published = true
	s.data.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type tx struct {
	data     *snapshot
	readOnly bool
}

func (t *tx) LoadLedger(_ context.Context) (entities.LedgerState, error) {
	return t.data.ledger, nil
}

func (t *tx) SaveLedger(_ context.Context, state entities.LedgerState) error {
	if t.readOnly {
		return errReadOnly
	}
	t.data.ledger = state
	return nil
}

func (t *tx) GetParticipant(_ context.Context, identity string) (entities.Participant, bool, error) {
	participant, ok := t.data.participants[strings.TrimSpace(identity)]
	return participant, ok, nil
}

func (t *tx) SaveParticipant(_ context.Context, participant entities.Participant) error {
	if t.readOnly {
		return errReadOnly
	}
	t.data.participants[participant.Identity] = participant
	return nil
}

func (t *tx) ListParticipants(_ context.Context) ([]entities.Participant, error) {
	items := make([]entities.Participant, 0, len(t.data.participants))
	for _, participant := range t.data.participants {
		items = append(items, participant)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Identity < items[j].Identity
	})
	return items, nil
}

func (t *tx) GetVoteRecord(_ context.Context, candidate string) (entities.VoteRecord, bool, error) {
	record, ok := t.data.votes[strings.TrimSpace(candidate)]
	if !ok {
		return entities.VoteRecord{}, false, nil
	}
	record.Voters = append([]string(nil), record.Voters...)
	return record, true, nil
}

func (t *tx) SaveVoteRecord(_ context.Context, record entities.VoteRecord) error {
	if t.readOnly {
		return errReadOnly
	}
	record.Voters = append([]string(nil), record.Voters...)
	t.data.votes[record.Candidate] = record
	return nil
}

func (t *tx) DeleteVoteRecord(_ context.Context, candidate string) error {
	if t.readOnly {
		return errReadOnly
	}
	delete(t.data.votes, strings.TrimSpace(candidate))
	return nil
}

func (t *tx) ListVoteRecords(_ context.Context) ([]entities.VoteRecord, error) {
	items := make([]entities.VoteRecord, 0, len(t.data.votes))
	for _, record := range t.data.votes {
		record.Voters = append([]string(nil), record.Voters...)
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Candidate < items[j].Candidate
	})
	return items, nil
}

func (t *tx) IsCallerAuthorized(_ context.Context, callerID string) (bool, error) {
	return t.data.callers[strings.TrimSpace(callerID)], nil
}

func (t *tx) SetCallerAuthorized(_ context.Context, callerID string, authorized bool, _ time.Time) error {
	if t.readOnly {
		return errReadOnly
	}
	callerID = strings.TrimSpace(callerID)
	if authorized {
		t.data.callers[callerID] = true
	} else {
		delete(t.data.callers, callerID)
	}
	return nil
}

func (t *tx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	if t.readOnly {
		return errReadOnly
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, ok := t.data.outbox[outboxID]; ok {
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	t.data.outboxSeq++
	t.data.outbox[outboxID] = outboxRecord{
		seq: t.data.outboxSeq,
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}
