package commands

import (
	"context"
	"errors"
	"strings"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

func ensureOperational(state entities.LedgerState) error {
	if !state.Operational {
		return domainerrors.ErrNotOperational
	}
	return nil
}

// ensureCaller checks the orchestrator allow-list. The owner is not implicitly
// on it.
func ensureCaller(ctx context.Context, tx ports.Tx, callerID string) error {
	if callerID == "" {
		return domainerrors.ErrUnauthorized
	}
	authorized, err := tx.IsCallerAuthorized(ctx, callerID)
	if err != nil {
		return err
	}
	if !authorized {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func ensureOwner(state entities.LedgerState, ownerID string) error {
	if ownerID == "" || state.Owner == "" || ownerID != state.Owner {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

// OutcomeLabel maps an operation result to the metrics outcome label.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domainerrors.ErrNotOperational):
		return "not_operational"
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domainerrors.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, domainerrors.ErrNotFunded):
		return "not_funded"
	case errors.Is(err, domainerrors.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, domainerrors.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, domainerrors.ErrAmountOverflow):
		return "amount_overflow"
	case errors.Is(err, domainerrors.ErrAlreadySeeded):
		return "already_seeded"
	case errors.Is(err, domainerrors.ErrInvalidName),
		errors.Is(err, domainerrors.ErrInvalidIdentity),
		errors.Is(err, domainerrors.ErrInvalidAmount):
		return "invalid_input"
	default:
		return "error"
	}
}

// isRejection separates business-rule rejections (logged at warn) from
// infrastructure failures.
func isRejection(err error) bool {
	label := OutcomeLabel(err)
	return label != "ok" && label != "error"
}

func trimmed(value string) string {
	return strings.TrimSpace(value)
}

func normalizeCallerID(value string) (string, error) {
	callerID := trimmed(value)
	if callerID == "" {
		return "", domainerrors.ErrInvalidIdentity
	}
	return callerID, nil
}
