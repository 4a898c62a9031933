package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nonnoweb/nonnoweb/internal/auth"
)

// TestLogging_CookieRedaction ensures the client cookie is never logged.
func TestLogging_CookieRedaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Logger(logger)(handler)

	req := httptest.NewRequest("POST", "/api/v1/session", strings.NewReader(`{"email":"a@b.it","password":"hunter2"}`))
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "eyJhbGciOiJIUzI1NiJ9.secret-token"})
	req.Header.Set("User-Agent", "TestAgent/1.0")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	logOutput := buf.String()
	for _, pattern := range []string{"secret-token", ClientCookieName, "hunter2"} {
		if strings.Contains(logOutput, pattern) {
			t.Errorf("Log output contains sensitive pattern %q", pattern)
		}
	}
}

// TestLogging_ClientID verifies the client ID is logged when present.
func TestLogging_ClientID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Logger(logger)(handler)

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	req = req.WithContext(auth.ContextWithClient(req.Context(), "client-123"))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), `"client_id":"client-123"`) {
		t.Errorf("expected client_id in log output, got: %s", buf.String())
	}
}

// TestLogging_BasicFields verifies that expected non-sensitive fields are logged.
func TestLogging_BasicFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	loggingMiddleware := Logger(logger)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	wrapped := loggingMiddleware(handler)

	req := httptest.NewRequest("POST", "/api/v1/me/recipes", nil)
	req.Header.Set("User-Agent", "TestBrowser/2.0")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	logOutput := buf.String()

	// These fields should be logged
	expectedFields := []string{
		`"method":"POST"`,
		`"path":"/api/v1/me/recipes"`,
		`"status_code":201`,
		`"user_agent":"TestBrowser/2.0"`,
	}

	for _, field := range expectedFields {
		if !strings.Contains(logOutput, field) {
			t.Errorf("Expected log field %s not found in output", field)
		}
	}
}

// TestLogging_ErrorStatusLevel verifies error statuses are logged at error level.
func TestLogging_ErrorStatusLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{"success", http.StatusOK, "INFO"},
		{"created", http.StatusCreated, "INFO"},
		{"bad request", http.StatusBadRequest, "WARN"},
		{"unauthorized", http.StatusUnauthorized, "WARN"},
		{"not found", http.StatusNotFound, "WARN"},
		{"internal error", http.StatusInternalServerError, "ERROR"},
		{"bad gateway", http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			loggingMiddleware := Logger(logger)
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			wrapped := loggingMiddleware(handler)

			req := httptest.NewRequest("GET", "/test", nil)
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			logOutput := buf.String()

			// Check log level
			if !strings.Contains(logOutput, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("Expected log level %s for status %d, got output: %s", tt.wantLevel, tt.statusCode, logOutput)
			}
		})
	}
}

// TestResponseWriter_CapturesStatus verifies the response writer correctly captures status codes.
func TestResponseWriter_CapturesStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"ok", http.StatusOK},
		{"created", http.StatusCreated},
		{"no content", http.StatusNoContent},
		{"bad request", http.StatusBadRequest},
		{"internal error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			wrapped := wrapResponseWriter(rec)

			wrapped.WriteHeader(tt.statusCode)

			if wrapped.status != tt.statusCode {
				t.Errorf("status = %d, want %d", wrapped.status, tt.statusCode)
			}
		})
	}
}

// TestResponseWriter_DefaultStatus verifies default status is 200 OK.
func TestResponseWriter_DefaultStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rec)

	// Write without explicit WriteHeader
	wrapped.Write([]byte("hello"))

	if wrapped.status != http.StatusOK {
		t.Errorf("default status = %d, want %d", wrapped.status, http.StatusOK)
	}
}

// TestResponseWriter_DoubleWriteHeader ensures only first WriteHeader takes effect.
func TestResponseWriter_DoubleWriteHeader(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rec)

	wrapped.WriteHeader(http.StatusCreated)
	wrapped.WriteHeader(http.StatusInternalServerError) // Should be ignored

	if wrapped.status != http.StatusCreated {
		t.Errorf("status after double write = %d, want %d", wrapped.status, http.StatusCreated)
	}
}
