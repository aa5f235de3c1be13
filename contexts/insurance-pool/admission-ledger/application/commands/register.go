package commands

import (
	"context"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/services"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

// RegisterCommand asks the ledger to admit CandidateID on behalf of
// InitiatorID. CallerID is the orchestrator relaying the request.
type RegisterCommand struct {
	CallerID    string
	InitiatorID string
	CandidateID string
	Name        string
}

// RegisterAirline admits a candidate directly while fewer than
// services.DirectAdmissionLimit airlines are funded, and by funded-airline
// majority afterwards.
func (uc LedgerUseCase) RegisterAirline(ctx context.Context, cmd RegisterCommand) (entities.RegisterOutcome, error) {
	outcome, err := uc.registerAirline(ctx, cmd)
	uc.settle(ctx, "register", err,
		"initiator_id", trimmed(cmd.InitiatorID),
		"candidate_id", trimmed(cmd.CandidateID),
		"admitted", outcome.Admitted,
		"vote_count", outcome.VoteCount,
	)
	return outcome, err
}

func (uc LedgerUseCase) registerAirline(ctx context.Context, cmd RegisterCommand) (entities.RegisterOutcome, error) {
	callerID := trimmed(cmd.CallerID)
	initiatorID, err := services.NormalizeIdentity(cmd.InitiatorID)
	if err != nil {
		return entities.RegisterOutcome{}, err
	}
	candidateID, err := services.NormalizeIdentity(cmd.CandidateID)
	if err != nil {
		return entities.RegisterOutcome{}, err
	}

	var outcome entities.RegisterOutcome
	err = uc.Repo.Atomic(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		if err := ensureOperational(state); err != nil {
			return err
		}
		if err := ensureCaller(ctx, tx, callerID); err != nil {
			return err
		}

		candidate, candidateFound, err := tx.GetParticipant(ctx, candidateID)
		if err != nil {
			return err
		}
		if candidateFound && candidate.IsRegistered {
			return domainerrors.ErrAlreadyRegistered
		}
		initiator, initiatorFound, err := tx.GetParticipant(ctx, initiatorID)
		if err != nil {
			return err
		}
		req := admission{
			state:           state,
			candidateID:     candidateID,
			candidate:       candidate,
			candidateFound:  candidateFound,
			initiatorID:     initiatorID,
			initiatorFunded: initiatorFound && initiator.IsFunded,
			rawName:         cmd.Name,
			now:             uc.now(),
		}
		if services.ModeFor(state.NumFundedAirlines) == services.ModeDirect {
			outcome, err = uc.admitDirect(ctx, tx, req)
			return err
		}
		outcome, err = uc.admitByVote(ctx, tx, req)
		return err
	})
	if err != nil {
		return entities.RegisterOutcome{}, err
	}
	return outcome, nil
}

// admission carries the state resolved inside one registration unit of work.
type admission struct {
	state           entities.LedgerState
	candidateID     string
	candidate       entities.Participant
	candidateFound  bool
	initiatorID     string
	initiatorFunded bool
	rawName         string
	now             time.Time
}

func (uc LedgerUseCase) admitDirect(ctx context.Context, tx ports.Tx, req admission) (entities.RegisterOutcome, error) {
	if !req.initiatorFunded {
		return entities.RegisterOutcome{}, domainerrors.ErrNotFunded
	}
	name, err := services.NormalizeName(req.rawName)
	if err != nil {
		return entities.RegisterOutcome{}, err
	}

	state := req.state
	admitted := entities.NewParticipant(req.candidateID, name, req.now)
	if req.candidateFound {
		// A pending row left over from voting mode is overwritten and its
		// tally dropped.
		admitted.CreatedAt = req.candidate.CreatedAt
		if err := tx.DeleteVoteRecord(ctx, req.candidateID); err != nil {
			return entities.RegisterOutcome{}, err
		}
	} else {
		state.NumAirlines++
	}
	admitted.IsRegistered = true
	if err := tx.SaveParticipant(ctx, admitted); err != nil {
		return entities.RegisterOutcome{}, err
	}
	state.UpdatedAt = req.now
	if err := tx.SaveLedger(ctx, state); err != nil {
		return entities.RegisterOutcome{}, err
	}
	if err := uc.appendRegistered(ctx, tx, admitted, "direct", req.now); err != nil {
		return entities.RegisterOutcome{}, err
	}
	return entities.RegisterOutcome{Admitted: true}, nil
}

// admitByVote applies one voting-mode call. An unfunded initiator may only
// nominate itself, and a self-nomination never counts as a vote.
func (uc LedgerUseCase) admitByVote(ctx context.Context, tx ports.Tx, req admission) (entities.RegisterOutcome, error) {
	selfNomination := req.initiatorID == req.candidateID
	if !selfNomination && !req.initiatorFunded {
		return entities.RegisterOutcome{}, domainerrors.ErrNotFunded
	}

	votes, votesFound, err := tx.GetVoteRecord(ctx, req.candidateID)
	if err != nil {
		return entities.RegisterOutcome{}, err
	}
	resolved := entities.ResolveCandidate(req.candidate, req.candidateFound, votes, votesFound)
	if resolved.Kind == entities.CandidatePending && resolved.Votes.HasVoter(req.initiatorID) {
		return entities.RegisterOutcome{}, domainerrors.ErrDuplicateVote
	}
	state := req.state
	votesRequired := services.VotesRequired(state.NumFundedAirlines)

	if resolved.Kind == entities.CandidateNotPresent {
		name, err := services.NormalizeName(req.rawName)
		if err != nil {
			return entities.RegisterOutcome{}, err
		}
		pending := entities.NewParticipant(req.candidateID, name, req.now)
		if err := tx.SaveParticipant(ctx, pending); err != nil {
			return entities.RegisterOutcome{}, err
		}
		state.NumAirlines++
		state.UpdatedAt = req.now
		if err := tx.SaveLedger(ctx, state); err != nil {
			return entities.RegisterOutcome{}, err
		}
		resolved.Votes = entities.VoteRecord{Candidate: req.candidateID, CreatedAt: req.now, UpdatedAt: req.now}
		resolved.Participant = pending
	}

	record := resolved.Votes
	if req.initiatorFunded {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = req.now
		}
		record = record.WithVoter(req.initiatorID, req.now)
		if err := appendEvent(ctx, tx, uc.IDGen, EventVoteRecorded, req.candidateID, req.now, map[string]any{
			"candidate_id":   req.candidateID,
			"voter_id":       req.initiatorID,
			"vote_count":     record.VoteCount(),
			"votes_required": votesRequired,
		}); err != nil {
			return entities.RegisterOutcome{}, err
		}
	}

	if resolved.Kind == entities.CandidatePending && services.QuorumReached(record.VoteCount(), state.NumFundedAirlines) {
		promoted := resolved.Participant
		promoted.IsRegistered = true
		promoted.UpdatedAt = req.now
		if err := tx.SaveParticipant(ctx, promoted); err != nil {
			return entities.RegisterOutcome{}, err
		}
		if err := tx.DeleteVoteRecord(ctx, req.candidateID); err != nil {
			return entities.RegisterOutcome{}, err
		}
		if err := uc.appendRegistered(ctx, tx, promoted, "quorum", req.now); err != nil {
			return entities.RegisterOutcome{}, err
		}
		return entities.RegisterOutcome{Admitted: true}, nil
	}

	if err := tx.SaveVoteRecord(ctx, record); err != nil {
		return entities.RegisterOutcome{}, err
	}
	return entities.RegisterOutcome{VoteCount: record.VoteCount()}, nil
}

func (uc LedgerUseCase) appendRegistered(ctx context.Context, tx ports.Tx, participant entities.Participant, via string, now time.Time) error {
	return appendEvent(ctx, tx, uc.IDGen, EventParticipantRegistered, participant.Identity, now, map[string]any{
		"airline_id":    participant.Identity,
		"name":          participant.Name,
		"via":           via,
		"registered_at": now,
	})
}
