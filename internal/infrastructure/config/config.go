package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is read once at startup and passed explicitly into constructors.
// Nothing in the codebase reads the environment after Load returns.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CookieSecret signs the session cookie wrapper; SessionEncSecret
	// encrypts session payloads at rest. They must differ.
	CookieSecret     string `env:"COOKIE_SECRET"`
	SessionEncSecret string `env:"SESSION_ENC_SECRET"`

	SessionTTL time.Duration `env:"SESSION_TTL, default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=12"`

	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=10"`
	LoginAttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=members_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.CookieSecret == "" || cfg.SessionEncSecret == "" {
		return nil, fmt.Errorf("config: COOKIE_SECRET and SESSION_ENC_SECRET are required")
	}
	return &cfg, nil
}
