package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/askmate/internal/config"
	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/lib/metrics"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions map[string]int

func (f fakeSessions) Authenticate(_ context.Context, token string) (int, error) {
	if token == "broken" {
		return 0, errors.New("redis: connection refused")
	}
	if id, ok := f[token]; ok {
		return id, nil
	}
	return 0, repository.ErrNotFound
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test", Storage: config.StorageMemory},
			Auth:          config.AuthConfig{SessionTTL: time.Hour},
			RateLimit:     config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:  &logger,
		Metrics: metrics.NewMetrics(),
	}
}

func TestLoadSession(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer(), fakeSessions{"good": 42})

	run := func(cookie string) (echo.Context, *httptest.ResponseRecorder, int) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var ctxUserID int
		err := auth.LoadSession(func(c echo.Context) error {
			ctxUserID = UserIDFromContext(c.Request().Context())
			return nil
		})(c)
		require.NoError(t, err)
		return c, rec, ctxUserID
	}

	t.Run("valid session", func(t *testing.T) {
		c, _, ctxUserID := run("good")
		assert.Equal(t, 42, GetUserID(c))
		assert.Equal(t, 42, ctxUserID)
		assert.Equal(t, "good", GetSessionToken(c))
	})

	t.Run("no cookie", func(t *testing.T) {
		c, _, ctxUserID := run("")
		assert.Zero(t, GetUserID(c))
		assert.Zero(t, ctxUserID)
	})

	t.Run("expired session clears the cookie", func(t *testing.T) {
		c, rec, _ := run("stale")
		assert.Zero(t, GetUserID(c))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("store failure continues anonymously", func(t *testing.T) {
		c, rec, _ := run("broken")
		assert.Zero(t, GetUserID(c))
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})
}

func TestRequireLogin(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer(), fakeSessions{})
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/add_question", nil), httptest.NewRecorder())
	err := auth.RequireLogin(func(echo.Context) error { return nil })(c)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	require.NotNil(t, httpErr.Action)
	assert.Equal(t, "/login", httpErr.Action.Value)

	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/add_question", nil), httptest.NewRecorder())
	c.Set(UserIDKey, 1)
	assert.NoError(t, auth.RequireLogin(func(echo.Context) error { return nil })(c))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Len(t, rec.Body.String(), 36)
	assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, "abc-123", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Len(t, rec.Body.String(), 36)
}

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer())
	e := echo.New()

	t.Run("redirect action", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		global.GlobalErrorHandler(errs.NewUnauthorizedError("log in", true).WithRedirect("/login"), c)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("text fallback without renderer", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		global.GlobalErrorHandler(errs.NewNotFoundError("Question not found", true, nil), c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Question not found", rec.Body.String())
	})

	t.Run("repository not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		global.GlobalErrorHandler(errors.Join(errors.New("question 9"), repository.ErrNotFound), c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown errors hide their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		global.GlobalErrorHandler(errors.New("dial tcp: secret host"), c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("echo route not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/nowhere", nil), rec)

		global.GlobalErrorHandler(echo.ErrNotFound, c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "Page not found"))
	})
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer()
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(NewRateLimitMiddleware(s).RateLimiter())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/status", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrometheus(t *testing.T) {
	s := newTestServer()
	e := echo.New()
	e.Use(NewMetricsMiddleware(s.Metrics).Prometheus())
	e.GET("/question/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return errs.NewNotFoundError("gone", true, nil) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/question/1", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/question/2", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Metrics.RequestCounter.WithLabelValues("GET", "/question/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics.RequestCounter.WithLabelValues("GET", "/boom", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(s.Metrics.RequestsInFlight))
}
