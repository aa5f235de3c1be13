package queries

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	application "flightsurety/contexts/insurance-pool/admission-ledger/application"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/services"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

// StatusUseCase serves the read-only ledger views. Every query except
// IsOperational requires the caller to be on the allow-list.
type StatusUseCase struct {
	Repo   ports.Repository
	Logger *slog.Logger
}

func (uc StatusUseCase) IsKnown(ctx context.Context, callerID string, airlineID string) (bool, error) {
	var known bool
	err := uc.read(ctx, "is_known", callerID, func(ctx context.Context, tx ports.Tx) error {
		_, found, err := lookup(ctx, tx, airlineID)
		known = found
		return err
	})
	return known, err
}

// IsRegistered also returns the total number of known airlines.
func (uc StatusUseCase) IsRegistered(ctx context.Context, callerID string, airlineID string) (bool, uint64, error) {
	var (
		registered bool
		count      uint64
	)
	err := uc.read(ctx, "is_registered", callerID, func(ctx context.Context, tx ports.Tx) error {
		participant, _, err := lookup(ctx, tx, airlineID)
		if err != nil {
			return err
		}
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		registered = participant.IsRegistered
		count = state.NumAirlines
		return nil
	})
	return registered, count, err
}

// IsFunded also returns the number of funded airlines.
func (uc StatusUseCase) IsFunded(ctx context.Context, callerID string, airlineID string) (bool, uint64, error) {
	var (
		funded bool
		count  uint64
	)
	err := uc.read(ctx, "is_funded", callerID, func(ctx context.Context, tx ports.Tx) error {
		participant, _, err := lookup(ctx, tx, airlineID)
		if err != nil {
			return err
		}
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		funded = participant.IsFunded
		count = state.NumFundedAirlines
		return nil
	})
	return funded, count, err
}

func (uc StatusUseCase) HasVoted(ctx context.Context, callerID string, voterID string, candidateID string) (bool, error) {
	voter, err := services.NormalizeIdentity(voterID)
	if err != nil {
		return false, err
	}
	var voted bool
	err = uc.read(ctx, "has_voted", callerID, func(ctx context.Context, tx ports.Tx) error {
		record, _, err := voteRecord(ctx, tx, candidateID)
		voted = record.HasVoter(voter)
		return err
	})
	return voted, err
}

// VoteCount is zero for unknown, registered and never-voted candidates alike.
func (uc StatusUseCase) VoteCount(ctx context.Context, callerID string, candidateID string) (uint64, uint64, error) {
	var count, required uint64
	err := uc.read(ctx, "vote_count", callerID, func(ctx context.Context, tx ports.Tx) error {
		record, _, err := voteRecord(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		count = record.VoteCount()
		required = services.VotesRequired(state.NumFundedAirlines)
		return nil
	})
	return count, required, err
}

func (uc StatusUseCase) GetParticipant(ctx context.Context, callerID string, airlineID string) (entities.Participant, error) {
	var participant entities.Participant
	err := uc.read(ctx, "get_participant", callerID, func(ctx context.Context, tx ports.Tx) error {
		found := false
		var err error
		participant, found, err = lookup(ctx, tx, airlineID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrNotFound
		}
		return nil
	})
	return participant, err
}

// ListPendingCandidates returns the live vote records joined to their
// participant rows, ordered by identity.
func (uc StatusUseCase) ListPendingCandidates(ctx context.Context, callerID string) ([]entities.PendingCandidate, error) {
	var items []entities.PendingCandidate
	err := uc.read(ctx, "list_pending", callerID, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		participants, err := tx.ListParticipants(ctx)
		if err != nil {
			return err
		}
		records, err := tx.ListVoteRecords(ctx)
		if err != nil {
			return err
		}
		byCandidate := make(map[string]entities.VoteRecord, len(records))
		for _, record := range records {
			byCandidate[record.Candidate] = record
		}
		required := services.VotesRequired(state.NumFundedAirlines)
		for _, participant := range participants {
			if participant.IsRegistered {
				continue
			}
			record := byCandidate[participant.Identity]
			items = append(items, entities.PendingCandidate{
				Identity:      participant.Identity,
				Name:          participant.Name,
				VoteCount:     record.VoteCount(),
				VotesRequired: required,
				Voters:        append([]string(nil), record.Voters...),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Identity < items[j].Identity
	})
	return items, nil
}

func (uc StatusUseCase) Summary(ctx context.Context, callerID string) (entities.LedgerSummary, error) {
	var summary entities.LedgerSummary
	err := uc.read(ctx, "summary", callerID, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		summary = entities.LedgerSummary{
			Operational:       state.Operational,
			NumAirlines:       state.NumAirlines,
			NumFundedAirlines: state.NumFundedAirlines,
			AdmissionMode:     string(services.ModeFor(state.NumFundedAirlines)),
			VotesRequired:     services.VotesRequired(state.NumFundedAirlines),
			FundingThreshold:  services.FundingThreshold,
		}
		return nil
	})
	return summary, err
}

// IsOperational is public.
func (uc StatusUseCase) IsOperational(ctx context.Context) (bool, error) {
	var operational bool
	err := uc.Repo.Read(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		operational = state.Operational
		return nil
	})
	return operational, err
}

func (uc StatusUseCase) read(ctx context.Context, query string, callerID string, fn func(ctx context.Context, tx ports.Tx) error) error {
	caller := strings.TrimSpace(callerID)
	err := uc.Repo.Read(ctx, func(ctx context.Context, tx ports.Tx) error {
		if caller == "" {
			return domainerrors.ErrUnauthorized
		}
		authorized, err := tx.IsCallerAuthorized(ctx, caller)
		if err != nil {
			return err
		}
		if !authorized {
			return domainerrors.ErrUnauthorized
		}
		return fn(ctx, tx)
	})
	if err != nil && !errorsIsExpected(err) {
		application.ResolveLogger(uc.Logger).Error("ledger query failed",
			"event", "admission_ledger_query_failed",
			"module", application.ModuleName,
			"layer", "application",
			"query", query,
			"caller_id", caller,
			"error", err.Error(),
		)
	}
	return err
}

func lookup(ctx context.Context, tx ports.Tx, airlineID string) (entities.Participant, bool, error) {
	identity, err := services.NormalizeIdentity(airlineID)
	if err != nil {
		return entities.Participant{}, false, err
	}
	return tx.GetParticipant(ctx, identity)
}

func voteRecord(ctx context.Context, tx ports.Tx, candidateID string) (entities.VoteRecord, bool, error) {
	identity, err := services.NormalizeIdentity(candidateID)
	if err != nil {
		return entities.VoteRecord{}, false, err
	}
	return tx.GetVoteRecord(ctx, identity)
}

func errorsIsExpected(err error) bool {
	for _, expected := range []error{
		domainerrors.ErrUnauthorized,
		domainerrors.ErrNotFound,
		domainerrors.ErrInvalidIdentity,
	} {
		if errors.Is(err, expected) {
			return true
		}
	}
	return false
}
