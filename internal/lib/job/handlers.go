package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/config"
	"github.com/wandero/tourbook/internal/lib/email"
)

// emailSender is the slice of the email client the handlers need.
type emailSender interface {
	SendWelcomeEmail(to, firstName string) error
	SendPasswordResetEmail(to, firstName, resetURL string) error
}

// InitHandlers wires the dependencies job handlers need. It must be
// called before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.emailClient = email.NewClient(cfg, logger)
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Processing welcome email task")

	if err := j.emailClient.SendWelcomeEmail(p.To, p.FirstName); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send welcome email")
		return err
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Successfully sent welcome email")

	return nil
}

func (j *JobService) handlePasswordResetEmailTask(ctx context.Context, t *asynq.Task) error {
	var p PasswordResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal password reset email payload: %w", err)
	}

	j.logger.Info().
		Str("type", "password_reset").
		Str("to", p.To).
		Msg("Processing password reset email task")

	if err := j.emailClient.SendPasswordResetEmail(p.To, p.FirstName, p.ResetURL); err != nil {
		j.logger.Error().
			Str("type", "password_reset").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send password reset email")
		return err
	}

	j.logger.Info().
		Str("type", "password_reset").
		Str("to", p.To).
		Msg("Successfully sent password reset email")

	return nil
}
