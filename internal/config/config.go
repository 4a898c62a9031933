// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/redis/go-redis/v9"

	"github.com/nonnoweb/nonnoweb/internal/kv"
)

// Store backends.
const (
	BackendMemory   = kv.BackendMemory
	BackendRedis    = kv.BackendRedis
	BackendPostgres = kv.BackendPostgres
	BackendSQLite   = kv.BackendSQLite
	BackendS3       = kv.BackendS3
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. Generation calls are slow, so writes get more room.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Key-value store
	StoreBackend   string `env:"STORE_BACKEND" envDefault:"memory"`
	StoreKeyPrefix string `env:"STORE_KEY_PREFIX" envDefault:""`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"nonnoweb.db"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Prefix          string `env:"S3_PREFIX" envDefault:"nonnoweb"`
	S3Region          string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`

	// Recipe generation (Gemini)
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL" envDefault:"gemini-3-flash-preview"`
	GeminiBaseURL     string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiTimeout     time.Duration `env:"GEMINI_TIMEOUT" envDefault:"60s"`
	GeminiTemperature float64       `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`

	// Client identity cookie
	ClientTokenSecret string        `env:"CLIENT_TOKEN_SECRET"`
	ClientTokenTTL    time.Duration `env:"CLIENT_TOKEN_TTL" envDefault:"8760h"`

	// Rate limiting for recipe generation (per IP)
	RateLimitGenerateEnabled bool    `env:"RATE_LIMIT_GENERATE_ENABLED" envDefault:"true"`
	RateLimitGenerateRPS     float64 `env:"RATE_LIMIT_GENERATE_RPS" envDefault:"0.2"`
	RateLimitGenerateBurst   int     `env:"RATE_LIMIT_GENERATE_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks that the selected backend has the settings it needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	case BackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 backend"))
		}
		if (c.S3AccessKeyID == "") != (c.S3SecretAccessKey == "") {
			errs = append(errs, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.IsProduction() && c.ClientTokenSecret == "" {
		errs = append(errs, errors.New("CLIENT_TOKEN_SECRET is required in production"))
	}
	if c.RateLimitGenerateEnabled && (c.RateLimitGenerateRPS <= 0 || c.RateLimitGenerateBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_GENERATE_RPS and RATE_LIMIT_GENERATE_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// StoreOptions maps the storage settings to kv.Options. redisClient is
// required for the redis backend and ignored otherwise.
func (c *Config) StoreOptions(redisClient *redis.Client) kv.Options {
	return kv.Options{
		Backend:     c.StoreBackend,
		KeyPrefix:   c.StoreKeyPrefix,
		RedisClient: redisClient,
		RedisURL:    c.RedisURL,
		DatabaseURL: c.DatabaseURL,
		SQLitePath:  c.SQLitePath,
		S3: kv.S3Config{
			Bucket:          c.S3Bucket,
			Prefix:          c.S3Prefix,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
		},
	}
}
