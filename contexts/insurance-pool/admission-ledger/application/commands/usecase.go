package commands

import (
	"context"
	"log/slog"
	"time"

	application "flightsurety/contexts/insurance-pool/admission-ledger/application"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

// LedgerUseCase owns every state-changing admission ledger operation. Each
// method runs as one Repository.Atomic unit of work, so a rejected call leaves
// no partial state and no outbox rows behind.
type LedgerUseCase struct {
	Repo    ports.Repository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Metrics ports.Metrics
	Logger  *slog.Logger
}

func (uc LedgerUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

// settle records metrics and logs the result of an operation after its unit
// of work has committed or rolled back.
func (uc LedgerUseCase) settle(ctx context.Context, operation string, err error, attrs ...any) {
	logger := application.ResolveLogger(uc.Logger)
	if uc.Metrics != nil {
		uc.Metrics.ObserveOperation(operation, OutcomeLabel(err))
	}

	base := []any{
		"event", "admission_ledger_" + operation + "_settled",
		"module", application.ModuleName,
		"layer", "application",
		"outcome", OutcomeLabel(err),
	}
	base = append(base, attrs...)
	switch {
	case err == nil:
		logger.InfoContext(ctx, operation+" completed", base...)
		uc.observeCounts(ctx)
	case isRejection(err):
		logger.WarnContext(ctx, operation+" rejected", append(base, "error", err.Error())...)
	default:
		logger.ErrorContext(ctx, operation+" failed", append(base, "error", err.Error())...)
	}
}

func (uc LedgerUseCase) observeCounts(ctx context.Context) {
	if uc.Metrics == nil {
		return
	}
	_ = uc.Repo.Read(ctx, func(ctx context.Context, tx ports.Tx) error {
		state, err := tx.LoadLedger(ctx)
		if err != nil {
			return err
		}
		uc.Metrics.ObserveCounts(state.NumAirlines, state.NumFundedAirlines)
		return nil
	})
}
