package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/config"
	"github.com/wandero/tourbook/internal/database"
	"github.com/wandero/tourbook/internal/handler"
	"github.com/wandero/tourbook/internal/logger"
	"github.com/wandero/tourbook/internal/middleware"
	"github.com/wandero/tourbook/internal/repository"
	"github.com/wandero/tourbook/internal/router"
	"github.com/wandero/tourbook/internal/server"
	"github.com/wandero/tourbook/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrapLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	bootstrapLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	loggerService, err := logger.NewLoggerService(cfg, &bootstrapLog)
	if err != nil {
		bootstrapLog.Fatal().Err(err).Msg("failed to initialize logger service")
	}

	log := logger.New(cfg, loggerService)

	if err := database.Migrate(context.Background(), log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	middlewares := middleware.NewMiddlewares(srv, services)
	handlers := handler.NewHandlers(srv, services, repos)

	e := router.New(middlewares, handlers)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if loggerService != nil {
		loggerService.Shutdown(5 * time.Second)
	}

	log.Info().Msg("server stopped")
}
