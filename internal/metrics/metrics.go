// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginAccountDisabled    = "account_disabled"
)

// Generation outcomes.
const (
	GenerationSuccess = "success"
	GenerationFailed  = "failed"
	GenerationDenied  = "denied"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Session metrics
	IncLogin(outcome string)

	// Recipe metrics
	IncRecipeGenerated(outcome string)
	ObserveGenerationDuration(duration time.Duration)
	IncRecipeSaved()
	IncRecipeDeleted()

	// Admin metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserDeleted()

	// Storage metrics
	IncStoreWriteFailure()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
