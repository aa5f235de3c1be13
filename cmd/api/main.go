package main

import (
	"context"
	"log/slog"

	"flightsurety/internal/app/bootstrap"
	"flightsurety/internal/app/cli"
	"flightsurety/internal/platform/config"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases), seed the first airline.
// 3) Serve HTTP until a shutdown signal arrives.
func main() {
	cli.Execute(cli.NewRootCommand("flightsurety-api", "Airline admission ledger HTTP API", run))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := bootstrap.BuildAPI(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("api shutdown close failed", "error", err.Error())
		}
	}()
	return app.Run(ctx)
}
