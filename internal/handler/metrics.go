package handler

import (
	"fmt"
	"net/http"

	"github.com/nonnoweb/nonnoweb/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "nonnoweb_logins_total{outcome=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "nonnoweb_logins_total{outcome=\"invalid_credentials\"} %d\n", snap.LoginsInvalidCredentials)
	writeMetric(w, "nonnoweb_logins_total{outcome=\"account_disabled\"} %d\n", snap.LoginsAccountDisabled)

	writeMetric(w, "nonnoweb_recipes_generated_total{outcome=\"success\"} %d\n", snap.RecipesGenerated)
	writeMetric(w, "nonnoweb_recipes_generated_total{outcome=\"failed\"} %d\n", snap.RecipesGenerationFailed)
	writeMetric(w, "nonnoweb_recipes_generated_total{outcome=\"denied\"} %d\n", snap.RecipesGenerationDenied)
	writeMetric(w, "nonnoweb_generation_duration_seconds_count %d\n", snap.GenerationDurationCount)
	writeMetric(w, "nonnoweb_generation_duration_seconds_sum %.6f\n", float64(snap.GenerationDurationTotalNs)/1e9)

	writeMetric(w, "nonnoweb_recipes_saved_total %d\n", snap.RecipesSaved)
	writeMetric(w, "nonnoweb_recipes_deleted_total %d\n", snap.RecipesDeleted)

	writeMetric(w, "nonnoweb_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "nonnoweb_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "nonnoweb_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "nonnoweb_store_write_failures_total %d\n", snap.StoreWriteFailures)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
