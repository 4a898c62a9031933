package dto

import "github.com/nonnoweb/nonnoweb/internal/model"

// GenerateRecipeRequest represents the kitchen form.
type GenerateRecipeRequest struct {
	SelectedIngredients []string `json:"selectedIngredients"`
	CustomIngredients   string   `json:"customIngredients"`
	MealType            string   `json:"mealType"`
	CourseType          string   `json:"courseType"`
	PeopleCount         int      `json:"peopleCount"`
	Intolerances        string   `json:"intolerances"`
}

// ToModel converts the form to a RecipeRequest.
func (r GenerateRecipeRequest) ToModel() model.RecipeRequest {
	return model.RecipeRequest{
		SelectedIngredients: r.SelectedIngredients,
		CustomIngredients:   r.CustomIngredients,
		MealType:            r.MealType,
		CourseType:          r.CourseType,
		PeopleCount:         r.PeopleCount,
		Intolerances:        r.Intolerances,
	}
}

// RecipeResponse wraps a single recipe. Recipe is null when nothing is
// displayed.
type RecipeResponse struct {
	Recipe *model.Recipe `json:"recipe"`
}

// RecipeListResponse represents the personal cookbook.
type RecipeListResponse struct {
	Data []model.Recipe `json:"data"`
}

// ToggleSaveResponse reports whether the recipe is saved after the toggle.
type ToggleSaveResponse struct {
	Saved bool         `json:"saved"`
	User  UserResponse `json:"user"`
}
