package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

func TestAtomicRollsBackOnError(t *testing.T) {
	store := NewStore("owner", "app")
	now := time.Now().UTC()
	boom := errors.New("boom")

	err := store.Atomic(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		if err := tx.SaveParticipant(ctx, entities.NewParticipant("A1", "One", now)); err != nil {
			return err
		}
		if err := tx.SaveVoteRecord(ctx, entities.VoteRecord{Candidate: "A1", Voters: []string{"A0"}}); err != nil {
			return err
		}
		if err := tx.SetCallerAuthorized(ctx, "app", false, now); err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, ports.EventEnvelope{EventID: "evt-1", EventType: "participant.registered"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = store.Read(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		if _, found, _ := tx.GetParticipant(ctx, "A1"); found {
			t.Fatal("participant survived rollback")
		}
		if _, found, _ := tx.GetVoteRecord(ctx, "A1"); found {
			t.Fatal("vote record survived rollback")
		}
		if authorized, _ := tx.IsCallerAuthorized(ctx, "app"); !authorized {
			t.Fatal("caller change survived rollback")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if pending, _ := store.ListPendingOutbox(context.Background(), 10); len(pending) != 0 {
		t.Fatalf("outbox row survived rollback: %d", len(pending))
	}
}

func TestReadRejectsWrites(t *testing.T) {
	store := NewStore("owner")
	err := store.Read(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		return tx.SaveLedger(ctx, entities.LedgerState{})
	})
	if !errors.Is(err, errReadOnly) {
		t.Fatalf("expected errReadOnly, got %v", err)
	}
}

func TestVoteRecordsAreNotAliased(t *testing.T) {
	store := NewStore("owner")
	record := entities.VoteRecord{Candidate: "C", Voters: []string{"A0"}}
	if err := store.Atomic(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		return tx.SaveVoteRecord(ctx, record)
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	record.Voters[0] = "mutated"

	_ = store.Read(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		stored, _, _ := tx.GetVoteRecord(ctx, "C")
		if stored.Voters[0] != "A0" {
			t.Fatalf("stored record aliased caller slice: %v", stored.Voters)
		}
		stored.Voters[0] = "again"
		fresh, _, _ := tx.GetVoteRecord(ctx, "C")
		if fresh.Voters[0] != "A0" {
			t.Fatalf("returned record aliased store slice: %v", fresh.Voters)
		}
		return nil
	})
}

func TestOutboxOrderingAndDedup(t *testing.T) {
	store := NewStore("owner")
	err := store.Atomic(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		for _, id := range []string{"evt-b", "evt-a", "evt-c", "evt-a"} {
			if err := tx.AppendOutbox(ctx, ports.EventEnvelope{EventID: id, EventType: "funds.contributed"}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	pending, _ := store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 3 || pending[0].OutboxID != "evt-b" || pending[1].OutboxID != "evt-a" || pending[2].OutboxID != "evt-c" {
		t.Fatalf("unexpected outbox order: %+v", pending)
	}
	if err := store.MarkOutboxPublished(context.Background(), "evt-b", time.Now()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	pending, _ = store.ListPendingOutbox(context.Background(), 1)
	if len(pending) != 1 || pending[0].OutboxID != "evt-a" {
		t.Fatalf("expected evt-a next, got %+v", pending)
	}
}

func TestNewStoreStartsOperationalAndUnseeded(t *testing.T) {
	store := NewStore(" owner ", "app", " ", "ops")
	_ = store.Read(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		state, _ := tx.LoadLedger(ctx)
		if !state.Operational || state.Seeded || state.Owner != "owner" {
			t.Fatalf("unexpected initial state: %+v", state)
		}
		for _, caller := range []string{"app", "ops"} {
			if ok, _ := tx.IsCallerAuthorized(ctx, caller); !ok {
				t.Fatalf("expected %s authorized", caller)
			}
		}
		if ok, _ := tx.IsCallerAuthorized(ctx, ""); ok {
			t.Fatal("blank caller must not be authorized")
		}
		return nil
	})
}
