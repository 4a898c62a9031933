package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nonnoweb/nonnoweb/internal/cache"
)

type failingLimiter struct{}

func (failingLimiter) CheckGenerateRateLimit(context.Context, string, float64, int) (*cache.RateLimitResult, error) {
	return nil, errors.New("limiter down")
}

func newRateLimited(limiter cache.Limiter, enabled bool) http.Handler {
	return RateLimitGenerate(RateLimitConfig{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: limiter,
		Enabled: enabled,
		RPS:     0.001,
		Burst:   2,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doGenerate(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/generate", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitGenerate_BlocksAfterBurst(t *testing.T) {
	handler := newRateLimited(cache.NewLocalLimiter(), true)

	for i := 0; i < 2; i++ {
		if rec := doGenerate(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := doGenerate(handler, "10.0.0.1:5678")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", rec.Header().Get("X-RateLimit-Limit"))
	}

	// Another host has its own bucket.
	if rec := doGenerate(handler, "10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}

func TestRateLimitGenerate_Disabled(t *testing.T) {
	handler := newRateLimited(cache.NewLocalLimiter(), false)

	for i := 0; i < 5; i++ {
		if rec := doGenerate(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimitGenerate_FailsOpen(t *testing.T) {
	handler := newRateLimited(failingLimiter{}, true)

	if rec := doGenerate(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.1.10:5555", "192.168.1.10"},
		{"[::1]:8080", "::1"},
		{"192.168.1.10", "192.168.1.10"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := getClientIP(req); got != tt.want {
			t.Errorf("getClientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
