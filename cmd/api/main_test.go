package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://app:s3cret@db:5432/nonnoweb", "postgres://app@db:5432/nonnoweb"},
		{"redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"redis://cache:6379/0", "redis://cache:6379/0"},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://app:s3cret@db:5432/nonnoweb"
	err := errors.New("connect " + dsn + " failed: password=hunter2 rejected")

	got := sanitizeError(err, dsn, "AKIASECRET")
	if strings.Contains(got, "s3cret") || strings.Contains(got, "hunter2") {
		t.Errorf("secrets leaked: %s", got)
	}

	got = sanitizeError(errors.New("bad key AKIASECRET"), "AKIASECRET")
	if strings.Contains(got, "AKIASECRET") {
		t.Errorf("opaque secret leaked: %s", got)
	}

	if sanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
