package middleware

import (
	"context"
	"net/http"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/model"
)

// SessionResolver returns the logged-in user of the calling client, or nil.
type SessionResolver interface {
	ResolveSession(ctx context.Context) *model.User
}

// LoadSession attaches the session user, when there is one, to the context.
// It never rejects a request.
func LoadSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolver.ResolveSession(r.Context()); user != nil {
				r = r.WithContext(auth.ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without a logged-in user.
// Must be applied after LoadSession.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Effettua l'accesso per continuare.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session user is not an admin.
// Must be applied after LoadSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Effettua l'accesso per continuare.")
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Accesso riservato agli amministratori.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
