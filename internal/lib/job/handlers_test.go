package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, to string) error {
	m.sent = append(m.sent, to)
	return m.err
}

func newTestJobService(m Mailer) *JobService {
	logger := zerolog.Nop()
	return &JobService{mailer: m, logger: &logger}
}

func TestNewWelcomeEmailTask(t *testing.T) {
	task, err := NewWelcomeEmailTask("ann@example.com")
	require.NoError(t, err)

	assert.Equal(t, TaskWelcome, task.Type())

	var p WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "ann@example.com", p.To)
}

func TestHandleWelcomeEmailTask(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	task, err := NewWelcomeEmailTask("ann@example.com")
	require.NoError(t, err)

	require.NoError(t, j.handleWelcomeEmailTask(context.Background(), task))
	assert.Equal(t, []string{"ann@example.com"}, mailer.sent)
}

func TestHandleWelcomeEmailTask_MailerErrorIsRetried(t *testing.T) {
	j := newTestJobService(&fakeMailer{err: errors.New("provider down")})

	task, err := NewWelcomeEmailTask("ann@example.com")
	require.NoError(t, err)

	err = j.handleWelcomeEmailTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleWelcomeEmailTask_BadPayloadSkipsRetry(t *testing.T) {
	mailer := &fakeMailer{}
	j := newTestJobService(mailer)

	err := j.handleWelcomeEmailTask(context.Background(), asynq.NewTask(TaskWelcome, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, mailer.sent)
}
