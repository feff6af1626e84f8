// Package config defines environment configuration structs and loaders.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	TopsisEnvConfig
	ServerEnvConfig
	ClientEnvConfig
	RedisEnvConfig
	LoggerEnvConfig
}

// LoadConfig reads an optional .env file and then parses the environment.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.DegenerateScore < 0 || c.DegenerateScore > 1 {
		return fmt.Errorf("TOPSIS_DEGENERATE_SCORE must be within [0, 1], got %v", c.DegenerateScore)
	}
	if c.TieTolerance < 0 {
		return fmt.Errorf("TOPSIS_TIE_TOLERANCE cannot be negative, got %v", c.TieTolerance)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Port)
	}
	return nil
}

// TopsisEnvConfig tunes the scorer's documented edge-case behavior.
type TopsisEnvConfig struct {
	DegenerateScore float64 `env:"TOPSIS_DEGENERATE_SCORE" envDefault:"0.5"`
	TieTolerance    float64 `env:"TOPSIS_TIE_TOLERANCE" envDefault:"1e-12"`
}

// ServerEnvConfig configures the server.
type ServerEnvConfig struct {
	Address       string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"SERVER_PORT" envDefault:"8888"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"4194304"`
}

// ClientEnvConfig configures the client.
type ClientEnvConfig struct {
	ServerURL     string        `env:"TOPSIS_SERVER_URL" envDefault:"http://127.0.0.1:8888"`
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"30s"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX" envDefault:"3"`
	RetryWait     time.Duration `env:"CLIENT_RETRY_WAIT" envDefault:"500ms"`
}

// RedisEnvConfig configures the optional Redis result cache.
type RedisEnvConfig struct {
	RedisEnabled  bool          `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string        `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

// LoggerEnvConfig selects the default log level.
type LoggerEnvConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
}
