package handler

import (
	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	auth *service.AuthService
}

func NewUserHandler(s *server.Server, auth *service.AuthService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		auth:    auth,
	}
}

func (h *UserHandler) RegistrationForm(c echo.Context, _ *EmptyRequest) (any, error) {
	return view.AuthForm{}, nil
}

// Register creates the account and logs it in.
func (h *UserHandler) Register(c echo.Context, req *CredentialsRequest) (string, error) {
	token, err := h.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return "", err
	}
	h.setSession(c, token)
	return "/", nil
}

func (h *UserHandler) LoginForm(c echo.Context, _ *EmptyRequest) (any, error) {
	return view.AuthForm{}, nil
}

func (h *UserHandler) Login(c echo.Context, req *CredentialsRequest) (string, error) {
	token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return "", err
	}
	h.setSession(c, token)
	return "/", nil
}

func (h *UserHandler) Logout(c echo.Context, _ *EmptyRequest) (string, error) {
	if err := h.auth.Logout(c.Request().Context(), middleware.GetSessionToken(c)); err != nil {
		middleware.GetLogger(c).Warn().Err(err).Msg("failed to delete session")
	}
	middleware.ClearSessionCookie(c, h.server.Config.Auth.CookieSecure)
	return "/", nil
}

func (h *UserHandler) List(c echo.Context, _ *EmptyRequest) (any, error) {
	return h.auth.Users(c.Request().Context())
}

func (h *UserHandler) setSession(c echo.Context, token string) {
	cfg := h.server.Config.Auth
	middleware.SetSessionCookie(c, token, cfg.SessionTTL, cfg.CookieSecure)
}
