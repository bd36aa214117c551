package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration, parsed once at startup.
type Config struct {
	ServerAddr    string `env:"SERVER_ADDR"    envDefault:":8080"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"authflow"`

	// ClientURL is the origin of the web client. It is used both as the
	// allowed CORS origin and as the base of password reset links.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	Token TokenConfig
}

// TokenConfig holds the settings for session tokens and the validity windows
// of verification codes and password reset tokens.
type TokenConfig struct {
	SessionSecret    string        `env:"SESSION_TOKEN_SECRET"`
	SessionExpiresIn time.Duration `env:"SESSION_TOKEN_EXPIRES_IN" envDefault:"168h"`
	Issuer           string        `env:"TOKEN_ISSUER"             envDefault:"auth-flow-api"`

	VerificationCodeExpiresIn   time.Duration `env:"VERIFICATION_CODE_EXPIRES_IN"    envDefault:"24h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.SessionSecret == "" {
		return fmt.Errorf("missing SESSION_TOKEN_SECRET environment variable")
	}

	return nil
}
