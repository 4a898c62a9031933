package handler

import (
	"log/slog"
	"net/http"

	"github.com/nonnoweb/nonnoweb/internal/auth"
	"github.com/nonnoweb/nonnoweb/internal/handler/dto"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// SessionHandler handles login, logout and the current session.
type SessionHandler struct {
	svc    *service.KitchenService
	logger *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *service.KitchenService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// Login handles POST /api/v1/session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if !result.OK() {
		status := http.StatusUnauthorized
		if result.Failure == model.LoginAccountDisabled {
			status = http.StatusForbidden
		}
		writeError(w, status, result.Failure.Code(), result.Failure.Message())
		return
	}

	h.logger.Info("login",
		"user_id", result.User.ID,
		"client_id", auth.ClientIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.SessionResponse{User: dto.ToUserResponse(result.User)})
}

// Current handles GET /api/v1/session.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		handleServiceError(w, h.logger, service.ErrNotLoggedIn)
		return
	}
	writeJSON(w, http.StatusOK, dto.SessionResponse{User: dto.ToUserResponse(user)})
}

// Logout handles DELETE /api/v1/session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
