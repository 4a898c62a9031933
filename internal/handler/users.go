package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nonnoweb/nonnoweb/internal/handler/dto"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// UserHandler handles the admin user management endpoints.
type UserHandler struct {
	svc    *service.AdminService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AdminService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/users?search=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.svc.ListUsers(r.Context(), r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := h.svc.AddUser(r.Context(), service.NewUserInput{
		Email:      req.Email,
		Password:   req.Password,
		Username:   req.Username,
		Membership: req.Membership,
		IsActive:   isActive,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Update handles PATCH /api/v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, service.UserPatch{
		Email:      req.Email,
		Password:   req.Password,
		Username:   req.Username,
		IsActive:   req.IsActive,
		Membership: req.Membership,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_updated", "user_id", id)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
