package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"flightsurety/internal/platform/config"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

// RunFunc is the process body executed once config and logging are ready.
type RunFunc func(ctx context.Context, cfg config.Config, logger *slog.Logger) error

// NewRootCommand builds a process root with the shared --config and --debug
// flags. The context passed to run is cancelled on SIGINT or SIGTERM.
func NewRootCommand(use string, short string, run RunFunc) *cobra.Command {
	var (
		configFile string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := NewLogger(cmd.ErrOrStderr(), debug, use)
			if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
				logger.Info(fmt.Sprintf(format, v...), "component", use)
			})); err != nil {
				return fmt.Errorf("set maxprocs: %w", err)
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	return cmd
}

// NewLogger returns the JSON process logger and installs it as the default.
func NewLogger(w io.Writer, debug bool, component string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	})).With("component", component)
	slog.SetDefault(logger)
	return logger
}

// Execute runs cmd and exits non-zero on failure.
func Execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("process stopped with error", "component", cmd.Name(), "error", err.Error())
		os.Exit(1)
	}
}
