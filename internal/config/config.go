package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset. Tokens signed with it are
// only suitable for local development.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	ServerPort  string
	DBPath      string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string

	// DevSecret reports that JWTSecret fell back to DevJWTSecret.
	DevSecret bool
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ServerPort:  getenv("SERVER_PORT"),
		DBPath:      getenv("DB_PATH"),
		DatabaseURL: getenv("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET"),
		LogLevel:    getenv("LOG_LEVEL"),
		TokenTTL:    24 * time.Hour,
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./data/receipts.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DevJWTSecret
		cfg.DevSecret = true
	}

	if ttl := getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", d)
		}
		cfg.TokenTTL = d
	}

	return cfg, nil
}
