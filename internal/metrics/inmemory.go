package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded           uint64
	LoginsInvalidCredentials  uint64
	LoginsAccountDisabled     uint64
	RecipesGenerated          uint64
	RecipesGenerationFailed   uint64
	RecipesGenerationDenied   uint64
	GenerationDurationCount   uint64
	GenerationDurationTotalNs int64
	RecipesSaved              uint64
	RecipesDeleted            uint64
	UsersCreated              uint64
	UsersUpdated              uint64
	UsersDeleted              uint64
	StoreWriteFailures        uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	loginsSucceeded           uint64
	loginsInvalidCredentials  uint64
	loginsAccountDisabled     uint64
	recipesGenerated          uint64
	recipesGenerationFailed   uint64
	recipesGenerationDenied   uint64
	generationDurationCount   uint64
	generationDurationTotalNs int64
	recipesSaved              uint64
	recipesDeleted            uint64
	usersCreated              uint64
	usersUpdated              uint64
	usersDeleted              uint64
	storeWriteFailures        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		LoginsSucceeded:           atomic.LoadUint64(&m.loginsSucceeded),
		LoginsInvalidCredentials:  atomic.LoadUint64(&m.loginsInvalidCredentials),
		LoginsAccountDisabled:     atomic.LoadUint64(&m.loginsAccountDisabled),
		RecipesGenerated:          atomic.LoadUint64(&m.recipesGenerated),
		RecipesGenerationFailed:   atomic.LoadUint64(&m.recipesGenerationFailed),
		RecipesGenerationDenied:   atomic.LoadUint64(&m.recipesGenerationDenied),
		GenerationDurationCount:   atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationTotalNs: atomic.LoadInt64(&m.generationDurationTotalNs),
		RecipesSaved:              atomic.LoadUint64(&m.recipesSaved),
		RecipesDeleted:            atomic.LoadUint64(&m.recipesDeleted),
		UsersCreated:              atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:              atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:              atomic.LoadUint64(&m.usersDeleted),
		StoreWriteFailures:        atomic.LoadUint64(&m.storeWriteFailures),
	}
}

// IncLogin increments the counter for the login outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	switch outcome {
	case LoginSuccess:
		atomic.AddUint64(&m.loginsSucceeded, 1)
	case LoginInvalidCredentials:
		atomic.AddUint64(&m.loginsInvalidCredentials, 1)
	case LoginAccountDisabled:
		atomic.AddUint64(&m.loginsAccountDisabled, 1)
	}
}

// IncRecipeGenerated increments the counter for the generation outcome.
func (m *InMemoryRecorder) IncRecipeGenerated(outcome string) {
	switch outcome {
	case GenerationSuccess:
		atomic.AddUint64(&m.recipesGenerated, 1)
	case GenerationFailed:
		atomic.AddUint64(&m.recipesGenerationFailed, 1)
	case GenerationDenied:
		atomic.AddUint64(&m.recipesGenerationDenied, 1)
	}
}

// ObserveGenerationDuration records the upstream call duration.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationTotalNs, duration.Nanoseconds())
}

// IncRecipeSaved increments recipe saved counter.
func (m *InMemoryRecorder) IncRecipeSaved() {
	atomic.AddUint64(&m.recipesSaved, 1)
}

// IncRecipeDeleted increments recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncStoreWriteFailure increments the failed store write counter.
func (m *InMemoryRecorder) IncStoreWriteFailure() {
	atomic.AddUint64(&m.storeWriteFailures, 1)
}
