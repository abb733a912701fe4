package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names stored in Redis; Asynq routes on these.
const (
	TaskWelcome       = "email:welcome"
	TaskPasswordReset = "email:password_reset"
)

// WelcomeEmailPayload is the JSON payload of the welcome email task.
type WelcomeEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
}

// PasswordResetEmailPayload is the JSON payload of the password reset
// email task. ResetURL already embeds the raw token.
type PasswordResetEmailPayload struct {
	To        string `json:"to"`
	FirstName string `json:"first_name"`
	ResetURL  string `json:"reset_url"`
}

// NewWelcomeEmailTask constructs the welcome email task.
func NewWelcomeEmailTask(to, firstName string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:        to,
		FirstName: firstName,
	})
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

// NewPasswordResetEmailTask constructs the password reset email task.
// It goes on the critical queue: the token in the link expires after ten
// minutes, so delivery delay eats directly into the user's window.
func NewPasswordResetEmailTask(to, firstName, resetURL string) (*asynq.Task, error) {
	payload, err := json.Marshal(PasswordResetEmailPayload{
		To:        to,
		FirstName: firstName,
		ResetURL:  resetURL,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPasswordReset,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}
