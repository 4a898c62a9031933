package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/repository"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "NOT_LOGGED_IN", "Effettua l'accesso per continuare.")
	case errors.Is(err, service.ErrFreeRecipeUsed):
		writeError(w, http.StatusPaymentRequired, "FREE_RECIPE_USED",
			"Hai già gustato la tua ricetta gratuita! Accedi o abbonati per continuare.")
	case errors.Is(err, service.ErrMembershipExpired):
		writeError(w, http.StatusPaymentRequired, "MEMBERSHIP_EXPIRED",
			"La tua membership è scaduta. Sostieni il Nonno per continuare!")
	case errors.Is(err, service.ErrDailyLimitReached):
		writeError(w, http.StatusForbidden, "DAILY_LIMIT_REACHED",
			"Hai raggiunto il limite di ricette per oggi. Torna domani!")
	case errors.Is(err, service.ErrNoIngredients):
		writeError(w, http.StatusBadRequest, "NO_INGREDIENTS", "Metti almeno un ingrediente, nipote!")
	case errors.Is(err, model.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, model.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "INVALID_RECORD", err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "GENERATION_FAILED", "C'è stato un piccolo intoppo in cucina. Riprova.")
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Ricetta non trovata.")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "Utente non trovato.")
	case errors.Is(err, repository.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "PLAN_NOT_FOUND", "Piano non trovato.")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Email già registrata.")
	case errors.Is(err, service.ErrAdminUndeletable):
		writeError(w, http.StatusForbidden, "ADMIN_UNDELETABLE", "Gli amministratori non possono essere eliminati.")
	case errors.Is(err, service.ErrInvalidMembership):
		writeError(w, http.StatusBadRequest, "INVALID_MEMBERSHIP", "Membership non valida.")
	case errors.Is(err, service.ErrInvalidUserInput):
		writeError(w, http.StatusBadRequest, "INVALID_USER", "Email, password e nome sono obbligatori.")
	case errors.Is(err, repository.ErrCorruptData):
		logger.Error("stored data is corrupt", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "STORE_CORRUPT", "I dati salvati non sono leggibili.")
	case errors.Is(err, repository.ErrStoreWrite):
		logger.Error("store write failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "STORE_WRITE_FAILED", "Impossibile salvare le modifiche. Riprova.")
	default:
		logger.Error("internal_error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
