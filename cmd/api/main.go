// Package main is the entrypoint for the NonnoWeb API server.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nonnoweb/nonnoweb/internal/cache"
	"github.com/nonnoweb/nonnoweb/internal/config"
	"github.com/nonnoweb/nonnoweb/internal/handler"
	"github.com/nonnoweb/nonnoweb/internal/kv"
	"github.com/nonnoweb/nonnoweb/internal/metrics"
	"github.com/nonnoweb/nonnoweb/internal/recipe"
	"github.com/nonnoweb/nonnoweb/internal/repository"
	"github.com/nonnoweb/nonnoweb/internal/server"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// devClientSecret signs client cookies in development when no secret is set.
const devClientSecret = "nonnoweb-development-only-secret"

func main() {
	ctx := context.Background()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Redis backs the redis store and the shared generation rate limiter.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = kv.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	store, err := kv.Open(ctx, cfg.StoreOptions(redisClient))
	if err != nil {
		logger.Error(
			"failed to open store",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.S3SecretAccessKey)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("store opened", slog.String("backend", cfg.StoreBackend))

	repo, err := repository.New(store, repository.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create repository", "error", err)
		os.Exit(1)
	}
	if err := repo.Bootstrap(ctx); err != nil {
		logger.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; recipe generation will fail")
	}
	generator := recipe.NewGeminiClient(recipe.Config{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		BaseURL:     cfg.GeminiBaseURL,
		Temperature: cfg.GeminiTemperature,
		Timeout:     cfg.GeminiTimeout,
	})

	metricsRecorder := metrics.NewInMemory()
	kitchenService := service.NewKitchenService(repo, generator, metricsRecorder, service.WithLogger(logger))
	adminService := service.NewAdminService(repo, metricsRecorder, service.WithLogger(logger))

	var limiter cache.Limiter = cache.NewLocalLimiter()
	var cacheHealth handler.HealthChecker
	if redisClient != nil {
		redisLimiter := cache.NewRedisLimiter(redisClient)
		limiter = redisLimiter
		cacheHealth = redisLimiter
	}

	secret := cfg.ClientTokenSecret
	if secret == "" {
		logger.Warn("CLIENT_TOKEN_SECRET is not set; using the development secret")
		secret = devClientSecret
	}

	r := server.NewRouter(server.RouterDeps{
		Config:       cfg,
		Logger:       logger,
		Kitchen:      kitchenService,
		Admin:        adminService,
		Metrics:      metricsRecorder,
		Limiter:      limiter,
		Store:        repo,
		Cache:        cacheHealth,
		ClientSecret: []byte(secret),
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	// LIFO: the store closes before the Redis client it may share.
	if redisClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return redisClient.Close() })
	}
	srv.OnShutdown("store", func(context.Context) error { return store.Close() })

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store_backend", cfg.StoreBackend,
		"gemini_model", cfg.GeminiModel,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
