package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nonnoweb/nonnoweb/internal/handler/dto"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// PlanHandler handles HTTP requests for membership plans.
type PlanHandler struct {
	svc    *service.AdminService
	logger *slog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(svc *service.AdminService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.PlanListResponse{Data: h.svc.ListPlans(r.Context())})
}

// Save handles PUT /api/v1/plans.
func (h *PlanHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SavePlansRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.svc.SavePlans(r.Context(), req.Plans); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("plans_saved", "count", len(req.Plans))

	writeJSON(w, http.StatusOK, dto.PlanListResponse{Data: h.svc.ListPlans(r.Context())})
}

// Expiry handles GET /api/v1/plans/{id}/expiry.
func (h *PlanHandler) Expiry(w http.ResponseWriter, r *http.Request) {
	membership := model.MembershipID(chi.URLParam(r, "id"))
	if !membership.IsValid() {
		handleServiceError(w, h.logger, service.ErrInvalidMembership)
		return
	}

	resp := dto.ExpiryResponse{Membership: membership}
	if expiry, ok := h.svc.ExpiryPreview(r.Context(), membership); ok {
		resp.ExpiryDate = &expiry
	}
	writeJSON(w, http.StatusOK, resp)
}
