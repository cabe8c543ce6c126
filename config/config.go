package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read once at startup from the environment (and an optional .env file).
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`

	// Fiber default BodyLimit is 4 MB. BODY_LIMIT_BYTES wins over BODY_LIMIT_MB.
	BodyLimitBytes int `env:"BODY_LIMIT_BYTES" envDefault:"0"`
	BodyLimitMB    int `env:"BODY_LIMIT_MB" envDefault:"4"`

	RateLimitMax           int `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`

	SeedSampleData bool          `env:"SEED_SAMPLE_DATA" envDefault:"true"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// Load reads .env if present and parses the environment into a Config.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Printf("no .env file found, using process environment")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindowSeconds <= 0 {
		return Config{}, errors.New("rate limit max and window must be positive")
	}
	return cfg, nil
}

// BodyLimit is the request body cap in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitBytes > 0 {
		return c.BodyLimitBytes
	}
	return c.BodyLimitMB * 1024 * 1024
}

func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}
