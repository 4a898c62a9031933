package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nonnoweb/nonnoweb/internal/handler/dto"
	"github.com/nonnoweb/nonnoweb/internal/model"
	"github.com/nonnoweb/nonnoweb/internal/service"
)

// RecipeHandler handles generation, the displayed recipe and the cookbook.
type RecipeHandler struct {
	svc    *service.KitchenService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.KitchenService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{svc: svc, logger: logger}
}

// Generate handles POST /api/v1/recipes/generate.
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	generated, err := h.svc.Generate(r.Context(), req.ToModel())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_generated",
		"recipe_id", generated.ID,
		"course_type", req.CourseType,
	)

	writeJSON(w, http.StatusCreated, dto.RecipeResponse{Recipe: generated})
}

// Current handles GET /api/v1/recipes/current.
func (h *RecipeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.RecipeResponse{Recipe: h.svc.CurrentRecipe(r.Context())})
}

// ClearCurrent handles DELETE /api/v1/recipes/current.
func (h *RecipeHandler) ClearCurrent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCurrentRecipe(r.Context()); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSaved handles GET /api/v1/me/recipes.
func (h *RecipeHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.svc.SavedRecipes(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, dto.RecipeListResponse{Data: recipes})
}

// ToggleSave handles POST /api/v1/me/recipes.
func (h *RecipeHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	var recipe model.Recipe
	// The service validates the recipe once it has an ID.
	if err := decodeBody(w, r, &recipe); err != nil {
		return
	}

	saved, user, err := h.svc.ToggleSaveRecipe(r.Context(), recipe)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_toggled", "recipe_id", recipe.ID, "saved", saved)

	writeJSON(w, http.StatusOK, dto.ToggleSaveResponse{Saved: saved, User: dto.ToUserResponse(user)})
}

// Delete handles DELETE /api/v1/me/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Recipe ID is required")
		return
	}

	if err := h.svc.DeleteRecipe(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// Select handles POST /api/v1/me/recipes/{id}/select.
func (h *RecipeHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Recipe ID is required")
		return
	}

	recipe, err := h.svc.SelectRecipe(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RecipeResponse{Recipe: recipe})
}
