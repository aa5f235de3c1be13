package commands

import (
	"context"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/services"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

// SeedCommand admits the first airline without any admission check.
type SeedCommand struct {
	OwnerID   string
	AirlineID string
	Name      string
}

// SeedResult reports whether the call created the seed airline or replayed an
// earlier identical seed.
type SeedResult struct {
	Participant entities.Participant
	Replayed    bool
}

// RegisterFirst seeds the registry. Only the owner may call it, and only once;
// repeating the same seed identity is a no-op.
func (uc LedgerUseCase) RegisterFirst(ctx context.Context, cmd SeedCommand) (SeedResult, error) {
	result, err := uc.registerFirst(ctx, cmd)
	uc.settle(ctx, "seed", err, "airline_id", trimmed(cmd.AirlineID), "replayed", result.Replayed)
	return result, err
}

func (uc LedgerUseCase) registerFirst(ctx context.Context, cmd SeedCommand) (SeedResult, error) {
	ownerID := trimmed(cmd.OwnerID)
	airlineID, err := services.NormalizeIdentity(cmd.AirlineID)
	if err != nil {
		return SeedResult{}, err
	}
	name, err := services.NormalizeName(cmd.Name)
	if err != nil {
		return SeedResult{}, err
	}

	var result SeedResult
	err = uc.Repo.Atomic(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		if err := ensureOperational(state); err != nil {
			return err
		}
		if err := ensureOwner(state, ownerID); err != nil {
			return err
		}
		if state.Seeded {
			if state.SeedAirline != airlineID {
				return domainerrors.ErrAlreadySeeded
			}
			existing, found, err := tx.GetParticipant(ctx, airlineID)
			if err != nil {
				return err
			}
			if !found {
				return domainerrors.ErrNotFound
			}
			result = SeedResult{Participant: existing, Replayed: true}
			return nil
		}
		if _, found, err := tx.GetParticipant(ctx, airlineID); err != nil {
			return err
		} else if found {
			return domainerrors.ErrAlreadyRegistered
		}

		now := uc.now()
		participant := entities.NewParticipant(airlineID, name, now)
		participant.IsRegistered = true
		if err := tx.SaveParticipant(ctx, participant); err != nil {
			return err
		}
		state.NumAirlines++
		state.Seeded = true
		state.SeedAirline = airlineID
		state.UpdatedAt = now
		if err := tx.SaveLedger(ctx, state); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, uc.IDGen, EventParticipantRegistered, airlineID, now, map[string]any{
			"airline_id":    airlineID,
			"name":          name,
			"via":           "seed",
			"registered_at": now,
		}); err != nil {
			return err
		}
		result = SeedResult{Participant: participant}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}
