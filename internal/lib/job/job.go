// Package job provides background job processing using Asynq.
//
// Tasks are enqueued through asynq.Client and processed by worker
// goroutines run by asynq.Server, with Redis as the backing store.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/config"
)

// JobService holds the Asynq client (enqueue) and server (workers).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server      *asynq.Server
	emailClient emailSender
	logger      *zerolog.Logger
}

// NewJobService creates a JobService backed by the Redis instance from
// cfg. Queue weights give password-reset mail priority over the rest.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers task handlers and starts the worker server. Start does
// not block; workers run until Stop.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	mux.HandleFunc(TaskPasswordReset, j.handlePasswordResetEmailTask)

	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(mux)
}

// Stop gracefully stops the worker server and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
