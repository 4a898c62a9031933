package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendS3       = "s3"
)

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown store backend")

// Options selects and configures a backend.
type Options struct {
	Backend     string
	KeyPrefix   string
	RedisClient *redis.Client // shared with the rate limiter
	RedisURL    string        // dialled when RedisClient is nil
	DatabaseURL string
	SQLitePath  string
	S3          S3Config
}

// Open constructs the configured backend, namespaced with KeyPrefix.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)

	switch opts.Backend {
	case "", BackendMemory:
		store = NewMemory()
	case BackendRedis:
		switch {
		case opts.RedisClient != nil:
			store = NewRedis(opts.RedisClient)
		case opts.RedisURL != "":
			store, err = OpenRedis(ctx, opts.RedisURL)
		default:
			return nil, fmt.Errorf("%s backend requires a Redis client or URL", BackendRedis)
		}
	case BackendPostgres:
		store, err = OpenPostgres(ctx, opts.DatabaseURL)
	case BackendSQLite:
		store, err = OpenSQLite(ctx, opts.SQLitePath)
	case BackendS3:
		store, err = OpenS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	return Prefixed(store, opts.KeyPrefix), nil
}
