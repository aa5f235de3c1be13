package entities

import (
	"slices"
	"time"
)

// VoteRecord is the live tally for a candidate awaiting quorum. It exists only
// between the first vote-mode registration call and promotion.
type VoteRecord struct {
	Candidate string
	Voters    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VoteCount is derived from the voter set so the two cannot drift apart.
func (r VoteRecord) VoteCount() uint64 {
	return uint64(len(r.Voters))
}

func (r VoteRecord) HasVoter(identity string) bool {
	return slices.Contains(r.Voters, identity)
}

// WithVoter returns a copy of the record with identity appended. Callers must
// check HasVoter first; the record never holds duplicates.
func (r VoteRecord) WithVoter(identity string, now time.Time) VoteRecord {
	voters := make([]string, 0, len(r.Voters)+1)
	voters = append(voters, r.Voters...)
	voters = append(voters, identity)
	r.Voters = voters
	r.UpdatedAt = now.UTC()
	return r
}

// CandidateKind enumerates the admission variants a candidate can be in.
type CandidateKind string

const (
	CandidateNotPresent CandidateKind = "not_present"
	CandidatePending    CandidateKind = "pending"
	CandidateRegistered CandidateKind = "registered"
)

// CandidateState is the resolved admission variant for one identity:
// NotPresent, Pending (with its vote record) or Registered.
type CandidateState struct {
	Kind        CandidateKind
	Participant Participant
	Votes       VoteRecord
}

// ResolveCandidate folds the participant row and optional vote record into a
// single variant. A registered participant never carries a vote record.
func ResolveCandidate(participant Participant, participantFound bool, votes VoteRecord, votesFound bool) CandidateState {
	if !participantFound {
		return CandidateState{Kind: CandidateNotPresent}
	}
	if participant.IsRegistered {
		return CandidateState{Kind: CandidateRegistered, Participant: participant}
	}
	state := CandidateState{Kind: CandidatePending, Participant: participant}
	if votesFound {
		state.Votes = votes
	} else {
		state.Votes = VoteRecord{Candidate: participant.Identity}
	}
	return state
}
