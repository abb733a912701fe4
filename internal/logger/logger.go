// Package logger configures the application's logging and observability.
//
// It builds the zerolog root logger (console output locally, JSON elsewhere)
// and owns the optional New Relic application used for APM, distributed
// tracing, and log forwarding.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/config"
)

// LoggerService holds the New Relic application instance when APM is
// configured. A nil nrApp means observability is log-only.
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	return s.nrApp
}

// Shutdown flushes pending telemetry. Safe on a disabled service.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s.nrApp != nil {
		s.nrApp.Shutdown(timeout)
	}
}

// NewLoggerService initializes New Relic from config.
//
// An empty license key yields a service with a nil application; callers
// treat that as "tracing disabled" and every integration becomes a no-op.
func NewLoggerService(cfg *config.Config, log *zerolog.Logger) (*LoggerService, error) {
	obs := cfg.Observability
	if obs.NewRelic.LicenseKey == "" {
		log.Info().Msg("new relic license key not set, tracing disabled")
		return &LoggerService{}, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(obs.ServiceName),
		newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
		newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
	}
	if obs.NewRelic.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
	}

	nrApp, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, err
	}

	return &LoggerService{nrApp: nrApp}, nil
}

// New constructs the root application logger.
//
// Local/console format is used when the logging format is "console";
// otherwise JSON is written, wrapped with the New Relic zerolog writer when
// log forwarding is active so that trace metadata is decorated in-line.
func New(cfg *config.Config, svc *LoggerService) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Observability.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	} else if svc != nil && svc.GetApplication() != nil {
		w := zerologWriter.New(os.Stderr, svc.GetApplication())
		out = &w
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()

	return &logger
}

// WithTraceContext adds New Relic trace correlation fields to a logger so
// log lines can be joined with distributed traces.
func WithTraceContext(log zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return log
	}
	md := txn.GetTraceMetadata()
	return log.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}
