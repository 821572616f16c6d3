package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler provides base functionality for all handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// request is satisfied by *T when T is a request struct with a Validate method.
// The pipeline allocates a fresh T per call.
type request[T any] interface {
	*T
	validation.Validatable
}

// PageFunc returns the data for a template.
type PageFunc[Req validation.Validatable] func(c echo.Context, req Req) (any, error)

// RedirectFunc returns the location to send the browser to.
type RedirectFunc[Req validation.Validatable] func(c echo.Context, req Req) (string, error)

// ResponseHandler writes the result of a successful handler call.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// PageResponseHandler renders a template.
type PageResponseHandler struct {
	status   int
	template string
}

func (h PageResponseHandler) Handle(c echo.Context, result any) error {
	return c.Render(h.status, h.template, result)
}

func (h PageResponseHandler) GetOperation() string {
	return "page"
}

func (h PageResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if txn != nil {
		txn.AddAttribute("page.template", h.template)
	}
}

// RedirectResponseHandler answers with 303 See Other, so the browser
// follows up a form POST with a GET.
type RedirectResponseHandler struct{}

func (h RedirectResponseHandler) Handle(c echo.Context, result any) error {
	location, _ := result.(string)
	if location == "" {
		location = "/"
	}
	return c.Redirect(http.StatusSeeOther, location)
}

func (h RedirectResponseHandler) GetOperation() string {
	return "redirect"
}

func (h RedirectResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	if location, ok := result.(string); ok && txn != nil {
		txn.AddAttribute("redirect.location", location)
	}
}

// handleRequest binds and validates req, runs handler and writes the
// result, logging durations and annotating the New Relic transaction.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// HandlePage wraps a PageFunc: bind, validate, call, render template with 200.
func HandlePage[T any, PT request[T]](handler PageFunc[PT], template string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PT(new(T)), func(c echo.Context, req PT) (any, error) {
			return handler(c, req)
		}, PageResponseHandler{status: http.StatusOK, template: template})
	}
}

// HandleRedirect wraps a RedirectFunc: bind, validate, call, 303 to the result.
func HandleRedirect[T any, PT request[T]](handler RedirectFunc[PT]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PT(new(T)), func(c echo.Context, req PT) (any, error) {
			return handler(c, req)
		}, RedirectResponseHandler{})
	}
}
