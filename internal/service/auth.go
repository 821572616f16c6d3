package service

import (
	"context"
	"errors"
	"strings"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/repository"
	"github.com/deppfellow/askmate/internal/server"
	"golang.org/x/crypto/bcrypt"
)

// WelcomeEnqueuer schedules the welcome email for a new account.
type WelcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, to string) error
}

var errInvalidCredentials = errs.NewUnauthorizedError("Invalid email or password", true)

type AuthService struct {
	server   *server.Server
	users    repository.UserRepository
	sessions repository.SessionStore
	jobs     WelcomeEnqueuer
}

func NewAuthService(s *server.Server, repos *repository.Repositories) *AuthService {
	svc := &AuthService{
		server:   s,
		users:    repos.User,
		sessions: repos.Session,
	}
	if s.Job != nil {
		svc.jobs = s.Job
	}
	return svc
}

// WithEnqueuer replaces the job client used after registration.
func (s *AuthService) WithEnqueuer(jobs WelcomeEnqueuer) *AuthService {
	s.jobs = jobs
	return s
}

// Register creates the account, opens a session for it and returns the
// session token. A failed welcome email enqueue is logged only.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	userID, err := s.users.RegisterUser(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			code := "USER_ALREADY_EXISTS"
			return "", errs.NewBadRequestError("A user with this email already exists", true, &code,
				[]errs.FieldError{{Field: "email", Error: "is already registered"}}, nil)
		}
		return "", err
	}
	s.server.Metrics.Registrations.Inc()

	if s.jobs != nil {
		if err := s.jobs.EnqueueWelcomeEmail(ctx, email); err != nil {
			s.server.Logger.Error().Err(err).Int("user_id", userID).Msg("failed to enqueue welcome email")
		}
	}

	return s.sessions.Create(ctx, userID)
}

// Login checks the credentials and returns a new session token. Unknown
// emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}

	return s.sessions.Create(ctx, user.ID)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to a user id. An unknown or
// expired token is ErrNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int, error) {
	return s.sessions.Get(ctx, token)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "User")
	}
	return user, nil
}

func (s *AuthService) Users(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
