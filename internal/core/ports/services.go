package ports

import (
	"context"

	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
)

// Session is returned by register and login.
type Session struct {
	Token    string
	Username string
}

type AccountService interface {
	Register(ctx context.Context, username, password string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to a username.
	Authenticate(ctx context.Context, token string) (string, error)

	GetAnimals(ctx context.Context, username string) (domain.Animals, error)
	SetAnimals(ctx context.Context, username string, animals domain.Animals) error
	ResetAnimals(ctx context.Context, username string) error
	RecordImpact(ctx context.Context, username string, result impact.Result) (domain.Animals, error)
}

// LogMealInput carries a meal to append to a date bucket.
type LogMealInput struct {
	Date      string
	MealName  string
	Nutrition *domain.Nutrition
}

type NutritionService interface {
	LogMeal(ctx context.Context, username string, in LogMealInput) (*domain.NutritionLog, error)
	ListLogs(ctx context.Context, username, startDate, endDate string) (domain.NutritionLogs, error)
	DeleteLog(ctx context.Context, username, date, logID string) error
	GetGoals(ctx context.Context, username string) (domain.NutritionGoals, error)
	SetGoals(ctx context.Context, username string, goals domain.NutritionGoals) (domain.NutritionGoals, error)
}

// ShareRecipeInput carries a recipe posted to the community feed.
type ShareRecipeInput struct {
	RecipeName   string
	RecipeText   string
	Description  string
	AnimalsSaved map[string]any
}

type CommunityService interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
	ShareRecipe(ctx context.Context, username string, in ShareRecipeInput) (*domain.SharedRecipe, error)
	ListRecipes(ctx context.Context) ([]*domain.SharedRecipe, error)
	LikeRecipe(ctx context.Context, username, recipeID string) (int, error)
	CommentOn(ctx context.Context, username, recipeID, text string) (*domain.Comment, error)
}

// Analysis is an impact estimate and where it came from ("model" or "heuristic").
type Analysis struct {
	Result impact.Result
	Source string
	Model  string
}

type AnalysisService interface {
	Analyze(ctx context.Context, recipeText string) (*Analysis, error)
}

// CatalogMeal is a catalog meal with its analyzer-ready text.
type CatalogMeal struct {
	domain.Meal
	AnalyzerText string `json:"analyzerText"`
}

type CatalogService interface {
	RandomVeganMeal(ctx context.Context) (*CatalogMeal, error)
	Search(ctx context.Context, query string) ([]CatalogMeal, error)
	Meal(ctx context.Context, id string) (*CatalogMeal, error)
}
