package commands

import (
	"context"
	"strconv"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/services"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

// FundCommand credits AmountWei to a registered airline's accumulator.
type FundCommand struct {
	CallerID  string
	AirlineID string
	AmountWei uint64
}

// Fund accumulates a contribution. The airline becomes funded, and the funded
// counter moves, only on the contribution that first reaches
// services.FundingThreshold.
func (uc LedgerUseCase) Fund(ctx context.Context, cmd FundCommand) (entities.FundOutcome, error) {
	outcome, err := uc.fund(ctx, cmd)
	uc.settle(ctx, "fund", err,
		"airline_id", trimmed(cmd.AirlineID),
		"amount_wei", strconv.FormatUint(cmd.AmountWei, 10),
		"is_funded", outcome.IsFunded,
	)
	return outcome, err
}

func (uc LedgerUseCase) fund(ctx context.Context, cmd FundCommand) (entities.FundOutcome, error) {
	callerID := trimmed(cmd.CallerID)
	airlineID, err := services.NormalizeIdentity(cmd.AirlineID)
	if err != nil {
		return entities.FundOutcome{}, err
	}
	if cmd.AmountWei == 0 {
		return entities.FundOutcome{}, domainerrors.ErrInvalidAmount
	}

	var outcome entities.FundOutcome
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
		participant, found, err := tx.GetParticipant(ctx, airlineID)
		if err != nil {
			return err
		}
		if !found || !participant.IsRegistered {
			return domainerrors.ErrNotRegistered
		}

		total, err := services.AccumulateFunding(participant.AmountFunded, cmd.AmountWei)
		if err != nil {
			return err
		}
		now := uc.now()
		participant.AmountFunded = total
		participant.UpdatedAt = now
		crossed := !participant.IsFunded && services.MeetsThreshold(total)
		if crossed {
			participant.IsFunded = true
		}
		if err := tx.SaveParticipant(ctx, participant); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, EventFundsContributed, airlineID, now, map[string]any{
			"airline_id":     airlineID,
			"amount_wei":     strconv.FormatUint(cmd.AmountWei, 10),
			"cumulative_wei": strconv.FormatUint(total, 10),
			"contributed_at": now,
		}); err != nil {
			return err
		}
		if crossed {
			state.NumFundedAirlines++
			state.UpdatedAt = now
			if err := tx.SaveLedger(ctx, state); err != nil {
				return err
			}
			if err := appendEvent(ctx, tx, uc.IDGen, EventParticipantFunded, airlineID, now, map[string]any{
				"airline_id":        airlineID,
				"name":              participant.Name,
				"amount_funded_wei": strconv.FormatUint(total, 10),
				"funded_at":         now,
			}); err != nil {
				return err
			}
		}
		outcome = entities.FundOutcome{
			IsFunded:     participant.IsFunded,
			AmountFunded: total,
			Contributed:  cmd.AmountWei,
		}
		return nil
	})
	if err != nil {
		return entities.FundOutcome{}, err
	}
	return outcome, nil
}
