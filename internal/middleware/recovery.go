package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer is a middleware that recovers from panics.
// It logs the panic and returns a 500 Internal Server Error.
// In development the stack is also printed to stderr.
func Recoverer(logger *slog.Logger, isDevelopment bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					logger.Error("panic recovered",
						slog.String("request_id", GetRequestID(r.Context())),
						slog.Any("panic", rvr),
						slog.String("stack", string(debug.Stack())),
					)

					if isDevelopment {
						debug.PrintStack()
					}

					writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Errore interno del server.")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
