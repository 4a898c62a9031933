package model

import (
	"fmt"
	"strings"
)

// Meal slots.
const (
	MealLunch  = "pranzo"
	MealDinner = "cena"
)

// Course categories.
const (
	CourseFirst    = "primo"
	CourseMain     = "secondo"
	CourseDessert  = "dolce"
	CourseSurprise = "sorpresa"
)

// Recipe is a generated or saved culinary artifact.
type Recipe struct {
	ID                string   `json:"id,omitempty" validate:"required"`
	Name              string   `json:"recipeName" validate:"required"`
	Description       string   `json:"description"`
	Ingredients       []string `json:"ingredientsList"`
	Steps             []string `json:"steps"`
	WinePairing       string   `json:"winePairing"`
	WinePairingReason string   `json:"winePairingReason"`
	Tip               string   `json:"nonnoTip"`
	PrepTimeMinutes   int      `json:"prepTimeMinutes" validate:"min=0"`
	Timestamp         int64    `json:"timestamp,omitempty"`
}

// Validate checks a persistable recipe.
func (r *Recipe) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: recipe %q: %v", ErrInvalidRecord, r.ID, err)
	}
	return nil
}

// RecipeRequest describes what the user wants cooked.
type RecipeRequest struct {
	SelectedIngredients []string `json:"selectedIngredients"`
	CustomIngredients   string   `json:"customIngredients"`
	MealType            string   `json:"mealType" validate:"oneof=pranzo cena"`
	CourseType          string   `json:"courseType" validate:"oneof=primo secondo dolce sorpresa"`
	PeopleCount         int      `json:"peopleCount" validate:"min=1,max=50"`
	Intolerances        string   `json:"intolerances"`
}

// HasIngredients reports whether at least one ingredient was given.
func (r *RecipeRequest) HasIngredients() bool {
	return len(r.SelectedIngredients) > 0 || strings.TrimSpace(r.CustomIngredients) != ""
}

// AllIngredients returns the selected ingredients followed by the custom ones.
func (r *RecipeRequest) AllIngredients() []string {
	out := append([]string(nil), r.SelectedIngredients...)
	if custom := strings.TrimSpace(r.CustomIngredients); custom != "" {
		out = append(out, custom)
	}
	return out
}

// Validate checks the request shape.
func (r *RecipeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
