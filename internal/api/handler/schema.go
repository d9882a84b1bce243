package handler

import (
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// --- Accounts ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
}

type animalsRequest struct {
	Animals domain.Animals `json:"animals" validate:"required"`
}

type animalsResponse struct {
	Animals domain.Animals `json:"animals"`
}

// --- Community ---

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type shareRecipeRequest struct {
	RecipeName   string         `json:"recipeName"   validate:"required"`
	RecipeText   string         `json:"recipeText"   validate:"required"`
	Description  string         `json:"description"`
	AnimalsSaved map[string]any `json:"animalsSaved"`
}

type shareRecipeResponse struct {
	Success bool                 `json:"success"`
	Recipe  *domain.SharedRecipe `json:"recipe"`
}

type recipesResponse struct {
	Recipes []*domain.SharedRecipe `json:"recipes"`
}

type likeResponse struct {
	Success bool `json:"success"`
	Likes   int  `json:"likes"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"notblank"`
}

type commentResponse struct {
	Success bool            `json:"success"`
	Comment *domain.Comment `json:"comment"`
}

// --- Nutrition ---

type logMealRequest struct {
	Date      string            `json:"date"      validate:"required,datetime=2006-01-02"`
	MealName  string            `json:"mealName"`
	Nutrition *domain.Nutrition `json:"nutrition" validate:"required"`
}

type logMealResponse struct {
	Success bool                 `json:"success"`
	Log     *domain.NutritionLog `json:"log"`
}

type logsResponse struct {
	Logs domain.NutritionLogs `json:"logs"`
}

type goalsRequest struct {
	Goals domain.NutritionGoals `json:"goals" validate:"required"`
}

type goalsResponse struct {
	Goals domain.NutritionGoals `json:"goals"`
}

type saveGoalsResponse struct {
	Success bool                  `json:"success"`
	Goals   domain.NutritionGoals `json:"goals"`
}

// --- Analysis ---

type analyzeRequest struct {
	RecipeText string `json:"recipeText" validate:"notblank"`
	Save       bool   `json:"save"`
}

// analyzeResponse is the impact result with its provenance. Animals holds the
// caller's updated tally when the result was saved.
type analyzeResponse struct {
	impact.Result
	Source  string         `json:"source"`
	Model   string         `json:"model,omitempty"`
	Animals domain.Animals `json:"animals,omitempty"`
}

// --- Catalog ---

type mealResponse struct {
	Meal *ports.CatalogMeal `json:"meal"`
}

type mealsResponse struct {
	Meals []ports.CatalogMeal `json:"meals"`
}
