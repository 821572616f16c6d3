package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/askmate/internal/database"
	"github.com/deppfellow/askmate/internal/handler"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/repository/memory"
	"github.com/deppfellow/askmate/internal/router"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
)

const shutdownTimeout = 30 * time.Second

func runServe(ctx context.Context, storage string) error {
	cfg, err := loadConfig(storage)
	if err != nil {
		return err
	}

	log, loggerService := newLogger(cfg)
	defer loggerService.Shutdown()

	if cfg.UsesPostgres() {
		if err := database.Migrate(ctx, &log, cfg); err != nil {
			log.Error().Err(err).Msg("failed to migrate database")
			return err
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	var repos *repository.Repositories
	if cfg.UsesPostgres() {
		repos = repository.NewRepositories(srv)
	} else {
		repos = memory.NewRepositories(cfg.Auth.SessionTTL)
	}

	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)

	r, err := router.NewRouter(srv, handlers, services)
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
