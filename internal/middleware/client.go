package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nonnoweb/nonnoweb/internal/auth"
)

// ClientCookieName is the cookie carrying the signed client identity.
const ClientCookieName = "nonnoweb_client"

// ClientConfig configures the ClientIdentity middleware.
type ClientConfig struct {
	Logger *slog.Logger
	Secret []byte
	TTL    time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// ClientIdentity attaches the browser's client ID to the request context.
// Requests with a missing, expired or forged cookie get a fresh client ID
// and a new cookie, so every request downstream has exactly one client.
func ClientIdentity(cfg ClientConfig) func(http.Handler) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var clientID string
			if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
				id, err := auth.ParseClientToken(cookie.Value, cfg.Secret)
				if err != nil {
					cfg.Logger.Debug("rejected client token",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				} else {
					clientID = id
				}
			}

			if clientID == "" {
				clientID = auth.NewClientID()
				issuedAt := now()
				token, err := auth.GenerateClientToken(clientID, cfg.Secret, cfg.TTL, issuedAt)
				if err != nil {
					cfg.Logger.Error("failed to issue client token",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Errore interno del server.")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    token,
					Path:     "/",
					Expires:  issuedAt.Add(cfg.TTL),
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithClient(r.Context(), clientID)))
		})
	}
}
