// Package cache provides the generation rate limiters.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	// rateLimitGeneratePrefix is the Redis key prefix for generation limits.
	rateLimitGeneratePrefix = "ratelimit:generate:"
	// rateLimitGenerateTTL is the TTL for generation limit keys.
	rateLimitGenerateTTL = 10 * time.Minute
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter throttles recipe generation per client IP.
type Limiter interface {
	CheckGenerateRateLimit(ctx context.Context, ip string, ratePerSecond float64, burst int) (*RateLimitResult, error)
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter keeps token buckets in Redis so every replica shares them.
type RedisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter uses client, usually the one backing the redis store.
// The caller owns the client.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

// Ping checks Redis connectivity.
func (c *RedisLimiter) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CheckGenerateRateLimit checks and updates the generation limit for an IP.
// The IP is hashed to avoid storing raw addresses. Redis errors fail open.
func (c *RedisLimiter) CheckGenerateRateLimit(ctx context.Context, ip string, ratePerSecond float64, burst int) (*RateLimitResult, error) {
	key := rateLimitGeneratePrefix + hashIP(ip)
	now := time.Now()

	result, err := tokenBucketScript.Run(ctx, c.client,
		[]string{key},
		ratePerSecond, burst, now.Unix(), int(rateLimitGenerateTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(burst),
			ResetAt:   now.Add(time.Minute),
		}, nil
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		ResetAt:    now.Add(time.Duration(float64(time.Second) / ratePerSecond)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

// LocalLimiter is an in-process Limiter for deployments without Redis.
// Buckets idle for longer than rateLimitGenerateTTL are evicted.
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates an empty LocalLimiter.
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		now:     time.Now,
	}
}

// CheckGenerateRateLimit implements Limiter.
func (l *LocalLimiter) CheckGenerateRateLimit(_ context.Context, ip string, ratePerSecond float64, burst int) (*RateLimitResult, error) {
	key := hashIP(ip)
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= rateLimitGenerateTTL {
		l.sweep(now)
	}
	bucket, ok := l.buckets[key]
	if !ok || bucket.limiter.Limit() != rate.Limit(ratePerSecond) || bucket.limiter.Burst() != burst {
		bucket = &localBucket{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
		l.buckets[key] = bucket
	}
	bucket.lastSeen = now
	limiter := bucket.limiter
	l.mu.Unlock()

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return &RateLimitResult{Allowed: false, ResetAt: now.Add(time.Minute), RetryAfter: time.Minute}, nil
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return &RateLimitResult{
			Allowed:    false,
			ResetAt:    now.Add(delay),
			RetryAfter: time.Duration(math.Ceil(delay.Seconds())) * time.Second,
		}, nil
	}

	return &RateLimitResult{
		Allowed:   true,
		Remaining: int64(math.Floor(limiter.TokensAt(now))),
		ResetAt:   now.Add(time.Duration(float64(time.Second) / ratePerSecond)),
	}, nil
}

// sweep drops idle buckets. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.lastSeen) >= rateLimitGenerateTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
