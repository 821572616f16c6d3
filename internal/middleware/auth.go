package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "askmate_session"

// SessionLookup resolves a session token to a user id. Unknown or expired
// tokens are repository.ErrNotFound.
type SessionLookup interface {
	Authenticate(ctx context.Context, token string) (int, error)
}

// AuthMiddleware loads the session of every request and guards the routes
// that need a logged in user.
type AuthMiddleware struct {
	server   *server.Server
	sessions SessionLookup
}

func NewAuthMiddleware(s *server.Server, sessions SessionLookup) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		sessions: sessions,
	}
}

// LoadSession puts the user id of a valid session cookie into the echo
// context and the request context. Requests without one continue anonymously.
func (auth *AuthMiddleware) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		userID, err := auth.sessions.Authenticate(c.Request().Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				ClearSessionCookie(c, auth.server.Config.Auth.CookieSecure)
			} else {
				GetLogger(c).Warn().
					Err(err).
					Msg("could not resolve session, continuing anonymously")
			}
			return next(c)
		}

		c.Set(UserIDKey, userID)
		c.Set(SessionTokenKey, cookie.Value)
		c.SetRequest(c.Request().WithContext(WithUserID(c.Request().Context(), userID)))

		userLogger := GetLogger(c).With().Int("user_id", userID).Logger()
		setLogger(c, &userLogger)

		return next(c)
	}
}

// RequireLogin sends anonymous requests to the login page.
func (auth *AuthMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if GetUserID(c) == 0 {
			return errs.NewUnauthorizedError("Please log in to continue", true).WithRedirect("/login")
		}
		return next(c)
	}
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
