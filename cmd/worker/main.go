package main

import (
	"context"
	"log/slog"

	"flightsurety/internal/app/bootstrap"
	"flightsurety/internal/app/cli"
	"flightsurety/internal/platform/config"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring against the shared store.
// 3) Relay committed outbox rows to the event bus and log airline
//    notifications until shutdown.
func main() {
	cli.Execute(cli.NewRootCommand("flightsurety-worker", "Admission ledger outbox relay", run))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := bootstrap.BuildWorker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("worker shutdown close failed", "error", err.Error())
		}
	}()
	return app.Run(ctx)
}
