package middleware

import (
	"context"

	"github.com/deppfellow/askmate/internal/logger"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys.
const (
	UserIDKey       = "user_id"
	SessionTokenKey = "session_token"
	LoggerKey       = "logger"
)

type contextKey string

const (
	userIDContextKey contextKey = "user_id"
	loggerContextKey contextKey = "logger"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext attaches a logger carrying request_id, method, route, ip
// and trace ids to both the echo context and the request context. LoadSession
// adds user_id once the session is resolved.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, &contextLogger)

			return next(c)
		}
	}
}

// GetUserID returns the logged in user's id, or 0 for anonymous requests.
func GetUserID(c echo.Context) int {
	if userID, ok := c.Get(UserIDKey).(int); ok {
		return userID
	}
	return 0
}

// GetSessionToken returns the token of the loaded session, if any.
func GetSessionToken(c echo.Context) string {
	if token, ok := c.Get(SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// setLogger stores logger in the echo context and the request context.
func setLogger(c echo.Context, logger *zerolog.Logger) {
	c.Set(LoggerKey, logger)
	c.SetRequest(c.Request().WithContext(WithLogger(c.Request().Context(), logger)))
}

func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext is GetUserID for code that only sees a context.Context.
func UserIDFromContext(ctx context.Context) int {
	if userID, ok := ctx.Value(userIDContextKey).(int); ok {
		return userID
	}
	return 0
}

// GetLogger returns the request logger, or a no-op logger outside a request.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

// LoggerFromContext is GetLogger for code that only sees a context.Context.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
