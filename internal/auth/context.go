package auth

import (
	"context"

	"github.com/nonnoweb/nonnoweb/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	clientContextKey contextKey = "client_id"
	userContextKey   contextKey = "session_user"
)

// ContextWithClient attaches the client id that scopes per-client slots.
func ContextWithClient(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientContextKey, clientID)
}

// ClientIDFromContext returns the client id, or "" when none is attached.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientContextKey).(string)
	return id
}

// ContextWithUser adds the resolved session user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the session user.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
