package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/askmate/internal/config"
	"github.com/deppfellow/askmate/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var storage string

	root := &cobra.Command{
		Use:           "askmate",
		Short:         "AskMate question and answer forum",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), storage)
		},
	}
	root.PersistentFlags().StringVar(&storage, "storage", "", "storage backend: postgres or memory (overrides "+config.EnvPrefix+"PRIMARY.STORAGE)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), storage)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

// loadConfig applies the --storage override before the environment is read,
// so database settings are only required for postgres.
func loadConfig(storage string) (*config.Config, error) {
	if storage != "" {
		if err := os.Setenv(config.EnvPrefix+"PRIMARY.STORAGE", storage); err != nil {
			return nil, fmt.Errorf("setting storage override: %w", err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		bootLogger.Error().Err(err).Msg("failed to load config")
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, *logger.LoggerService) {
	loggerService := logger.NewLoggerService(cfg.Observability)
	return logger.NewLoggerWithService(cfg.Observability, loggerService), loggerService
}
