package entities

import (
	"testing"
	"time"
)

func TestParticipantStage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var unknown Participant
	if unknown.Stage() != StageUnknown {
		t.Fatalf("zero participant must be unknown, got %s", unknown.Stage())
	}
	pending := NewParticipant("0xB", "Beta Air", now)
	if pending.Stage() != StagePending {
		t.Fatalf("expected pending, got %s", pending.Stage())
	}
	pending.IsRegistered = true
	if pending.Stage() != StageRegistered {
		t.Fatalf("expected registered, got %s", pending.Stage())
	}
	pending.IsFunded = true
	if pending.Stage() != StageFunded {
		t.Fatalf("expected funded, got %s", pending.Stage())
	}
}

func TestWithVoterDoesNotAliasOriginal(t *testing.T) {
	now := time.Now()
	original := VoteRecord{Candidate: "0xC", Voters: []string{"0xA"}}
	next := original.WithVoter("0xB", now)

	if original.VoteCount() != 1 || next.VoteCount() != 2 {
		t.Fatalf("expected counts 1 and 2, got %d and %d", original.VoteCount(), next.VoteCount())
	}
	next.Voters[0] = "0xZ"
	if original.Voters[0] != "0xA" {
		t.Fatalf("WithVoter must copy the voter slice")
	}
	if !next.HasVoter("0xB") || original.HasVoter("0xB") {
		t.Fatalf("unexpected voter membership")
	}
}

func TestResolveCandidate(t *testing.T) {
	now := time.Now()
	if got := ResolveCandidate(Participant{}, false, VoteRecord{}, false); got.Kind != CandidateNotPresent {
		t.Fatalf("expected not_present, got %s", got.Kind)
	}

	registered := NewParticipant("0xA", "Alpha", now)
	registered.IsRegistered = true
	if got := ResolveCandidate(registered, true, VoteRecord{}, false); got.Kind != CandidateRegistered {
		t.Fatalf("expected registered, got %s", got.Kind)
	}

	pending := NewParticipant("0xB", "Beta", now)
	got := ResolveCandidate(pending, true, VoteRecord{}, false)
	if got.Kind != CandidatePending || got.Votes.Candidate != "0xB" || got.Votes.VoteCount() != 0 {
		t.Fatalf("expected empty pending record for 0xB, got %+v", got)
	}
}
