package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment configuration of the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Credentials for non-interactive login (CI/CD)
	Credentials CredentialsConfig

	// Token storage backend
	TokenStore string

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds API connection configuration
type APIConfig struct {
	ServerURL string        // Overrides the server picked from spoadmin.json when set
	Timeout   time.Duration // Per-request timeout
}

// CredentialsConfig holds login credentials read from the environment
type CredentialsConfig struct {
	Login    string
	Password string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout := 30 * time.Second
	if raw := os.Getenv("SPOADMIN_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SPOADMIN_TIMEOUT %q: %w", raw, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("invalid SPOADMIN_TIMEOUT %q: must be positive", raw)
		}
		timeout = parsed
	}

	tokenStore := os.Getenv("SPOADMIN_TOKEN_STORE")
	if tokenStore == "" {
		tokenStore = "keyring"
	}

	// The CLI prints results on stdout; keep logs quiet unless asked
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "warn"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
	}

	return &Config{
		API: APIConfig{
			ServerURL: os.Getenv("SPOADMIN_SERVER_URL"),
			Timeout:   timeout,
		},
		Credentials: CredentialsConfig{
			Login:    os.Getenv("SPOADMIN_LOGIN"),
			Password: os.Getenv("SPOADMIN_PASSWORD"),
		},
		TokenStore: tokenStore,
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
