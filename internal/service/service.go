// Package service provides business logic for the application.
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Service errors.
var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrNoIngredients     = errors.New("at least one ingredient is required")
	ErrFreeRecipeUsed    = errors.New("free recipe already used")
	ErrMembershipExpired = errors.New("membership expired")
	ErrDailyLimitReached = errors.New("daily recipe limit reached")
	ErrGenerationFailed  = errors.New("recipe generation failed")
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrAdminUndeletable  = errors.New("admin users cannot be deleted")
	ErrInvalidMembership = errors.New("invalid membership")
	ErrInvalidUserInput  = errors.New("email, password and username are required")
)

// Option configures a service.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newID() string {
	return ulid.Make().String()
}
