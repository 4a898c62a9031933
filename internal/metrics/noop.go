package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncRecipeGenerated is a no-op.
func (n *NoopRecorder) IncRecipeGenerated(outcome string) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(duration time.Duration) {}

// IncRecipeSaved is a no-op.
func (n *NoopRecorder) IncRecipeSaved() {}

// IncRecipeDeleted is a no-op.
func (n *NoopRecorder) IncRecipeDeleted() {}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncStoreWriteFailure is a no-op.
func (n *NoopRecorder) IncStoreWriteFailure() {}
