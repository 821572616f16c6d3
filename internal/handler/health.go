package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth pings the configured dependencies and answers 503 when any
// of them fails. In memory mode there is nothing to ping.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"storage":     h.server.Config.Primary.Storage,
		"checks":      checks,
	}

	obs := h.server.Config.Observability
	enabled := func(name string) bool {
		return obs.HealthChecks.Enabled && slices.Contains(obs.HealthChecks.Checks, name)
	}

	isHealthy := true

	if h.server.DB != nil && enabled("database") {
		if !h.check(c.Request().Context(), &logger, checks, "database", h.server.DB.Pool.Ping) {
			isHealthy = false
		}
	}

	if h.server.Redis != nil && enabled("redis") {
		ping := func(ctx context.Context) error { return h.server.Redis.Ping(ctx).Err() }
		if !h.check(c.Request().Context(), &logger, checks, "redis", ping) {
			isHealthy = false
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

// check runs one ping with the configured timeout and records the outcome.
func (h *HealthHandler) check(parent context.Context, logger *zerolog.Logger, checks map[string]any, name string, ping func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthCheckTimeout())
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		checks[name] = map[string]any{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordFailure(map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]any{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}
	return true
}

func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
