// Package repository persists users, membership plans and per-client
// session state in a key-value store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/kv"
	"github.com/nonnoweb/nonnoweb/internal/model"
)

// Store keys.
const (
	KeyUsers         = "nonnoweb_db_users"
	KeyPlans         = "nonnoweb_db_plans"
	KeySession       = "nonnoweb_current_session"
	KeyFreeUsed      = "nonnoweb_free_used"
	KeyCurrentRecipe = "nonnoweb_current_recipe"
)

// Bootstrap admin credentials seeded into an empty store.
const (
	BootstrapAdminID       = "admin-0"
	BootstrapAdminEmail    = "admin@nonnoweb.it"
	BootstrapAdminPassword = "admin123"
	BootstrapAdminUsername = "Amministratore"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Common errors for repository operations.
var (
	// ErrCorruptData indicates a stored collection failed to decode or validate.
	ErrCorruptData = errors.New("corrupt stored data")
	// ErrStoreWrite indicates the backend rejected a write.
	ErrStoreWrite   = errors.New("store write failed")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrPlanNotFound = errors.New("plan not found")
)

// Repository provides access to the persisted collections and client slots.
type Repository struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
	params auth.Params

	// mu serialises read-modify-write sequences on the shared collections.
	mu    sync.Mutex
	admin model.User
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for degraded reads.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithHashParams sets the Argon2id cost used for new password hashes.
func WithHashParams(p auth.Params) Option {
	return func(r *Repository) { r.params = p }
}

// New creates a Repository over store.
func New(store kv.Store, opts ...Option) (*Repository, error) {
	r := &Repository{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		params: auth.DefaultParams,
	}
	for _, opt := range opts {
		opt(r)
	}

	hash, err := auth.HashPassword(BootstrapAdminPassword, r.params)
	if err != nil {
		return nil, fmt.Errorf("hash bootstrap admin password: %w", err)
	}
	r.admin = model.User{
		ID:           BootstrapAdminID,
		Email:        BootstrapAdminEmail,
		Password:     hash,
		Username:     BootstrapAdminUsername,
		Role:         model.RoleAdmin,
		IsActive:     true,
		Membership:   model.MembershipLifetime,
		SavedRecipes: []model.Recipe{},
	}

	return r, nil
}

// Bootstrap seeds the users and plans collections when they are absent.
// Existing collections, corrupt or not, are left untouched.
func (r *Repository) Bootstrap(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.seedIfAbsent(ctx, KeyUsers, []model.User{r.admin}); err != nil {
		return err
	}
	return r.seedIfAbsent(ctx, KeyPlans, model.DefaultPlans())
}

func (r *Repository) seedIfAbsent(ctx context.Context, key string, value any) error {
	_, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, kv.ErrNotFound):
		return fmt.Errorf("read %s: %w", key, err)
	}

	r.logger.Info("seeding store", slog.String("key", key))
	return r.write(ctx, key, value)
}

// Ping checks backend connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStoreWrite, key, err)
	}
	return nil
}

// read fetches and decodes key. found is false when the key is absent.
func (r *Repository) read(ctx context.Context, key string, dst any) (found bool, err error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrCorruptData, key, err)
	}
	return true, nil
}

// clientKey scopes base to the client attached to ctx.
func clientKey(ctx context.Context, base string) string {
	if id := auth.ClientIDFromContext(ctx); id != "" {
		return base + ":" + id
	}
	return base
}
