package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the task type routed to handleWelcomeEmailTask.
	TaskWelcome = "email:welcome"
)

// WelcomeEmailPayload is the JSON payload of a TaskWelcome task.
type WelcomeEmailPayload struct {
	To string `json:"to"`
}

// NewWelcomeEmailTask builds a welcome email task: three retries on the
// default queue with a 30s timeout.
func NewWelcomeEmailTask(to string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{To: to})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
