package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/askmate/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	sent []string
	err  error
}

func (f *fakeEnqueuer) EnqueueWelcomeEmail(_ context.Context, to string) error {
	f.sent = append(f.sent, to)
	return f.err
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	jobs := &fakeEnqueuer{}
	auth := env.services.Auth.WithEnqueuer(jobs)

	token, err := auth.Register(ctx, "  Ada@Example.com ", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, []string{"ada@example.com"}, jobs.sent)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.server.Metrics.Registrations))

	userID, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)

	user, err := auth.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	loginToken, err := auth.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, token, loginToken)

	require.NoError(t, auth.Logout(ctx, loginToken))
	_, err = auth.Authenticate(ctx, loginToken)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, auth.Logout(ctx, ""))

	users, err := auth.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.services.Auth

	_, err := auth.Register(ctx, "bob@example.com", "password1")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "BOB@example.com", "password2")
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := env.services.Auth

	_, err := auth.Register(ctx, "eve@example.com", "password1")
	require.NoError(t, err)

	_, wrongPassword := auth.Login(ctx, "eve@example.com", "password2")
	_, unknownEmail := auth.Login(ctx, "nobody@example.com", "password1")

	first := requireHTTPError(t, wrongPassword, http.StatusUnauthorized)
	second := requireHTTPError(t, unknownEmail, http.StatusUnauthorized)
	assert.Equal(t, first.Message, second.Message)
}

func TestAuthService_EnqueueFailureDoesNotBlockRegistration(t *testing.T) {
	env := newTestEnv(t)
	auth := env.services.Auth.WithEnqueuer(&fakeEnqueuer{err: errors.New("redis down")})

	token, err := auth.Register(context.Background(), "zed@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
