package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/api/middleware"
	"github.com/savefarm/savefarm/internal/core/domain"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, username, password string) (*ports.Session, error)
	loginFn        func(ctx context.Context, username, password string) (*ports.Session, error)
	logoutFn       func(ctx context.Context, token string) error
	getAnimalsFn   func(ctx context.Context, username string) (domain.Animals, error)
	setAnimalsFn   func(ctx context.Context, username string, animals domain.Animals) error
	resetAnimalsFn func(ctx context.Context, username string) error
	recordImpactFn func(ctx context.Context, username string, result impact.Result) (domain.Animals, error)
}

func (s *stubAccountService) Register(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAccountService) Authenticate(context.Context, string) (string, error) {
	return "", domain.ErrUnauthenticated
}

func (s *stubAccountService) GetAnimals(ctx context.Context, username string) (domain.Animals, error) {
	return s.getAnimalsFn(ctx, username)
}

func (s *stubAccountService) SetAnimals(ctx context.Context, username string, animals domain.Animals) error {
	return s.setAnimalsFn(ctx, username, animals)
}

func (s *stubAccountService) ResetAnimals(ctx context.Context, username string) error {
	return s.resetAnimalsFn(ctx, username)
}

func (s *stubAccountService) RecordImpact(ctx context.Context, username string, result impact.Result) (domain.Animals, error) {
	return s.recordImpactFn(ctx, username, result)
}

type stubNutritionService struct {
	logMealFn   func(ctx context.Context, username string, in ports.LogMealInput) (*domain.NutritionLog, error)
	listLogsFn  func(ctx context.Context, username, startDate, endDate string) (domain.NutritionLogs, error)
	deleteLogFn func(ctx context.Context, username, date, logID string) error
	getGoalsFn  func(ctx context.Context, username string) (domain.NutritionGoals, error)
	setGoalsFn  func(ctx context.Context, username string, goals domain.NutritionGoals) (domain.NutritionGoals, error)
}

func (s *stubNutritionService) LogMeal(ctx context.Context, username string, in ports.LogMealInput) (*domain.NutritionLog, error) {
	return s.logMealFn(ctx, username, in)
}

func (s *stubNutritionService) ListLogs(ctx context.Context, username, startDate, endDate string) (domain.NutritionLogs, error) {
	return s.listLogsFn(ctx, username, startDate, endDate)
}

func (s *stubNutritionService) DeleteLog(ctx context.Context, username, date, logID string) error {
	return s.deleteLogFn(ctx, username, date, logID)
}

func (s *stubNutritionService) GetGoals(ctx context.Context, username string) (domain.NutritionGoals, error) {
	return s.getGoalsFn(ctx, username)
}

func (s *stubNutritionService) SetGoals(ctx context.Context, username string, goals domain.NutritionGoals) (domain.NutritionGoals, error) {
	return s.setGoalsFn(ctx, username, goals)
}

type stubCommunityService struct {
	leaderboardFn func(ctx context.Context) ([]domain.LeaderboardEntry, error)
	shareFn       func(ctx context.Context, username string, in ports.ShareRecipeInput) (*domain.SharedRecipe, error)
	listFn        func(ctx context.Context) ([]*domain.SharedRecipe, error)
	likeFn        func(ctx context.Context, username, recipeID string) (int, error)
	commentFn     func(ctx context.Context, username, recipeID, text string) (*domain.Comment, error)
}

func (s *stubCommunityService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.leaderboardFn(ctx)
}

func (s *stubCommunityService) ShareRecipe(ctx context.Context, username string, in ports.ShareRecipeInput) (*domain.SharedRecipe, error) {
	return s.shareFn(ctx, username, in)
}

func (s *stubCommunityService) ListRecipes(ctx context.Context) ([]*domain.SharedRecipe, error) {
	return s.listFn(ctx)
}

func (s *stubCommunityService) LikeRecipe(ctx context.Context, username, recipeID string) (int, error) {
	return s.likeFn(ctx, username, recipeID)
}

func (s *stubCommunityService) CommentOn(ctx context.Context, username, recipeID, text string) (*domain.Comment, error) {
	return s.commentFn(ctx, username, recipeID, text)
}

type stubAnalysisService struct {
	analyzeFn func(ctx context.Context, recipeText string) (*ports.Analysis, error)
}

func (s *stubAnalysisService) Analyze(ctx context.Context, recipeText string) (*ports.Analysis, error) {
	return s.analyzeFn(ctx, recipeText)
}

type stubCatalogService struct {
	randomFn func(ctx context.Context) (*ports.CatalogMeal, error)
	searchFn func(ctx context.Context, query string) ([]ports.CatalogMeal, error)
	mealFn   func(ctx context.Context, id string) (*ports.CatalogMeal, error)
}

func (s *stubCatalogService) RandomVeganMeal(ctx context.Context) (*ports.CatalogMeal, error) {
	return s.randomFn(ctx)
}

func (s *stubCatalogService) Search(ctx context.Context, query string) ([]ports.CatalogMeal, error) {
	return s.searchFn(ctx, query)
}

func (s *stubCatalogService) Meal(ctx context.Context, id string) (*ports.CatalogMeal, error) {
	return s.mealFn(ctx, id)
}

// newContext builds an echo context with the validator installed and, when
// username is set, the values the session middleware would inject.
const testSessionHeader = "X-Session-Id"

func newContext(method, target, body, username string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if username != "" {
		c.Set(middleware.ContextUsername, username)
		c.Set(middleware.ContextToken, "tok-"+username)
	}
	return c, rec
}
