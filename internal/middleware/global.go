package middleware

import (
	"net/http"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrorTemplate is the page the global error handler renders.
const ErrorTemplate = "error.html"

type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger logs one line per request with the status the client
// actually receives, including statuses decided by the error handler.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("HTTP")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler normalizes every error into an *errs.HTTPError, logs
// it, and either follows its redirect action or renders the error page.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	httpErr := toHTTPError(err)

	logger := GetLogger(c)
	event := logger.Warn()
	if httpErr.Status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	event.
		Err(err).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if httpErr.Action != nil && httpErr.Action.Type == errs.ActionTypeRedirect {
		_ = c.Redirect(http.StatusSeeOther, httpErr.Action.Value)
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	data := map[string]any{
		"Status":  httpErr.Status,
		"Title":   http.StatusText(httpErr.Status),
		"Message": httpErr.DisplayMessage(),
		"Errors":  httpErr.Errors,
	}

	if c.Echo().Renderer != nil {
		renderErr := c.Render(httpErr.Status, ErrorTemplate, data)
		if renderErr == nil {
			return
		}
		logger.Error().Err(renderErr).Msg("failed to render error page")
	}

	_ = c.String(httpErr.Status, httpErr.DisplayMessage())
}

// toHTTPError converts echo errors and database errors into *errs.HTTPError.
func toHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return errs.NewNotFoundError("Page not found", true, nil)
		}

		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		return &errs.HTTPError{
			Code:     errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
			Message:  message,
			Status:   echoErr.Code,
			Override: true,
		}
	}

	if errors.Is(err, repository.ErrNotFound) {
		return errs.NewNotFoundError("Not found", true, nil)
	}

	if errors.As(sqlerr.HandleError(err), &httpErr) {
		return httpErr
	}
	return errs.NewInternalServerError()
}

// statusOf is the status GlobalErrorHandler will answer err with.
func statusOf(err error) int {
	httpErr := toHTTPError(err)
	if httpErr.Action != nil && httpErr.Action.Type == errs.ActionTypeRedirect {
		return http.StatusSeeOther
	}
	return httpErr.Status
}
