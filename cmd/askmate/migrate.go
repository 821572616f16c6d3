package main

import (
	"context"

	"github.com/deppfellow/askmate/internal/config"
	"github.com/deppfellow/askmate/internal/database"
)

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig(config.StoragePostgres)
	if err != nil {
		return err
	}

	log, loggerService := newLogger(cfg)
	defer loggerService.Shutdown()

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}
	return nil
}
