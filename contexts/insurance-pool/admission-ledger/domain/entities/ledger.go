package entities

import "time"

// LedgerState is the singleton row holding the operational flag, the owner
// identity and the registry counters.
type LedgerState struct {
	Owner             string
	Operational       bool
	Seeded            bool
	SeedAirline       string
	NumAirlines       uint64
	NumFundedAirlines uint64
	UpdatedAt         time.Time
}

// NewLedgerState is the documented initial state: operational, unseeded.
func NewLedgerState(owner string, now time.Time) LedgerState {
	return LedgerState{
		Owner:       owner,
		Operational: true,
		UpdatedAt:   now.UTC(),
	}
}

// RegisterOutcome is returned by registration calls. VoteCount is zero when
// the candidate was admitted.
type RegisterOutcome struct {
	Admitted  bool
	VoteCount uint64
}

// FundOutcome reports the participant funding state after a contribution.
type FundOutcome struct {
	IsFunded     bool
	AmountFunded uint64
	Contributed  uint64
}

// PendingCandidate is the inspection view of a live vote record.
type PendingCandidate struct {
	Identity      string
	Name          string
	VoteCount     uint64
	VotesRequired uint64
	Voters        []string
}

// LedgerSummary is the global inspection view.
type LedgerSummary struct {
	Operational       bool
	NumAirlines       uint64
	NumFundedAirlines uint64
	AdmissionMode     string
	VotesRequired     uint64
	FundingThreshold  uint64
}
