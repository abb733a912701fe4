// Package config loads and validates the application's environment
// configuration.
//
// Variables are read from the process environment (optionally seeded from a
// `.env` file via godotenv's autoload), mapped into structured Go types with
// koanf, and validated with go-playground/validator so the application fails
// fast on missing or malformed values.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process environment
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// envPrefix namespaces every environment variable consumed by the service.
// Nested struct fields map via dot notation, e.g.
// TOURBOOK_SERVER.PORT -> server.port -> Config.Server.Port.
const envPrefix = "TOURBOOK_"

// Config is the root configuration object.
//
// Observability is a pointer because it is optional; when absent, defaults
// are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment,
// used to tag logs/traces and to switch env-dependent behavior.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs the login rate limiter and the asynq task queues.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores token-signing and session-cookie parameters.
type AuthConfig struct {
	// SecretKey signs and verifies the HS256 access tokens.
	SecretKey string `koanf:"secret_key" validate:"required"`

	// TokenExpiry is the validity window of an access token from issuance,
	// supplied as a parseable duration string (e.g. "24h", "90m").
	TokenExpiry time.Duration `koanf:"token_expiry" validate:"required"`

	// CookieExpiryDays controls the expiry of the `jwt` session cookie,
	// independent of the token's own exp claim.
	CookieExpiryDays int `koanf:"cookie_expiry_days" validate:"required"`
}

// IntegrationConfig holds credentials for external providers.
type IntegrationConfig struct {
	// ResendAPIKey authenticates outbound email via Resend.
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`

	// StripeSecretKey authenticates checkout-session creation with Stripe.
	StripeSecretKey string `koanf:"stripe_secret_key" validate:"required"`

	// FrontendBaseURL is used to build checkout redirect and password-reset
	// URLs delivered to clients.
	FrontendBaseURL string `koanf:"frontend_base_url" validate:"required"`
}

// Load reads configuration from environment variables, unmarshals it into
// Config, validates it, and applies observability defaults.
//
// Any failure at this stage is fatal: the process cannot run on a broken
// configuration, so errors are logged and the process exits.
func Load() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment follows the primary block so that
	// telemetry is labeled consistently no matter what was supplied.
	cfg.Observability.ServiceName = "tourbook"
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return cfg, nil
}
