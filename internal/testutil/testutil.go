package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// EnvOr returns the environment variable or fallback when unset.
func EnvOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var seq atomic.Int64

// UniqueSuffix returns a string unique within the test process.
func UniqueSuffix() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq.Add(1))
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return prefix + "-" + UniqueSuffix()
}

// Clock is a settable time source for tests.
type Clock struct {
	now atomic.Int64
}

// NewClock starts a clock at t.
func NewClock(t time.Time) *Clock {
	c := &Clock{}
	c.Set(t)
	return c
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	return time.Unix(0, c.now.Load()).UTC()
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.now.Store(t.UnixNano())
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now.Add(int64(d))
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates an active member with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID("user"),
		Email:        email,
		Password:     "secret",
		Username:     "Tester",
		Role:         model.RoleUser,
		IsActive:     true,
		Membership:   model.MembershipLifetime,
		SavedRecipes: []model.Recipe{},
	}
}

// NewTestRecipe creates a recipe with the given id.
func NewTestRecipe(t testing.TB, id string) model.Recipe {
	t.Helper()
	return model.Recipe{
		ID:                id,
		Name:              "Pasta al pomodoro",
		Description:       "Un classico della domenica.",
		Ingredients:       []string{"pasta", "pomodoro", "basilico"},
		Steps:             []string{"Cuoci la pasta.", "Prepara il sugo.", "Unisci."},
		WinePairing:       "Chianti",
		WinePairingReason: "Acidità che bilancia il pomodoro.",
		Tip:               "Mai il ketchup!",
		PrepTimeMinutes:   20,
		Timestamp:         1700000000000,
	}
}

// NewTestRequest creates a valid recipe request.
func NewTestRequest(t testing.TB) model.RecipeRequest {
	t.Helper()
	return model.RecipeRequest{
		SelectedIngredients: []string{"pasta", "pomodoro"},
		MealType:            model.MealLunch,
		CourseType:          model.CourseFirst,
		PeopleCount:         2,
	}
}
