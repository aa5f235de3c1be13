package commands

import (
	"context"

	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

type SetOperationalCommand struct {
	OwnerID     string
	Operational bool
}

type CallerCommand struct {
	OwnerID  string
	CallerID string
}

// SetOperational toggles the circuit breaker. It is the one mutation accepted
// while the ledger is paused; setting the current value is a no-op.
func (uc LedgerUseCase) SetOperational(ctx context.Context, cmd SetOperationalCommand) error {
	err := uc.setOperational(ctx, cmd)
	uc.settle(ctx, "set_operational", err, "operational", cmd.Operational)
	return err
}

func (uc LedgerUseCase) setOperational(ctx context.Context, cmd SetOperationalCommand) error {
	ownerID := trimmed(cmd.OwnerID)
	return uc.Repo.Atomic(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		if err := ensureOwner(state, ownerID); err != nil {
			return err
		}
		if state.Operational == cmd.Operational {
			return nil
		}
		now := uc.now()
		state.Operational = cmd.Operational
		state.UpdatedAt = now
		if err := tx.SaveLedger(ctx, state); err != nil {
			return err
		}
		return appendEvent(ctx, tx, uc.IDGen, EventOperationalChanged, "", now, map[string]any{
			"operational": cmd.Operational,
			"changed_by":  ownerID,
		})
	})
}

// AuthorizeCaller adds an orchestrator to the allow-list.
func (uc LedgerUseCase) AuthorizeCaller(ctx context.Context, cmd CallerCommand) error {
	err := uc.setCallerAuthorized(ctx, cmd, true)
	uc.settle(ctx, "authorize_caller", err, "caller_id", trimmed(cmd.CallerID))
	return err
}

// DeauthorizeCaller removes an orchestrator from the allow-list.
func (uc LedgerUseCase) DeauthorizeCaller(ctx context.Context, cmd CallerCommand) error {
	err := uc.setCallerAuthorized(ctx, cmd, false)
	uc.settle(ctx, "deauthorize_caller", err, "caller_id", trimmed(cmd.CallerID))
	return err
}

func (uc LedgerUseCase) setCallerAuthorized(ctx context.Context, cmd CallerCommand, authorized bool) error {
	ownerID := trimmed(cmd.OwnerID)
	callerID, err := normalizeCallerID(cmd.CallerID)
	if err != nil {
		return err
	}
	return uc.Repo.Atomic(ctx, func(ctx context.Context, tx ports.Tx) error {
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
		current, err := tx.IsCallerAuthorized(ctx, callerID)
		if err != nil {
			return err
		}
		if current == authorized {
			return nil
		}
		now := uc.now()
		if err := tx.SetCallerAuthorized(ctx, callerID, authorized, now); err != nil {
			return err
		}
		eventType := EventCallerDeauthorized
		if authorized {
			eventType = EventCallerAuthorized
		}
		return appendEvent(ctx, tx, uc.IDGen, eventType, "", now, map[string]any{
			"caller_id":  callerID,
			"changed_by": ownerID,
		})
	})
}
