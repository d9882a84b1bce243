package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/savefarm/savefarm/docs"
	"github.com/savefarm/savefarm/internal/api/handler"
	"github.com/savefarm/savefarm/internal/api/middleware"
	"github.com/savefarm/savefarm/internal/core/ports"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Accounts  ports.AccountService
	Nutrition ports.NutritionService
	Community ports.CommunityService
	Analysis  ports.AnalysisService
	Catalog   ports.CatalogService
}

// Options configures the cross-cutting parts of the router. Registerer and
// Gatherer default to the global Prometheus registry.
type Options struct {
	Log           zerolog.Logger
	SessionHeader string
	AllowOrigins  []string
	Checks        map[string]handler.Pinger
	Registerer    prometheus.Registerer
	Gatherer      prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, opts.SessionHeader},
	}))
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "savefarm",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(svc.Accounts, opts.SessionHeader)
	nutritionHandler := handler.NewNutritionHandler(svc.Nutrition)
	communityHandler := handler.NewCommunityHandler(svc.Community)
	analysisHandler := handler.NewAnalysisHandler(svc.Analysis, svc.Accounts)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	healthHandler := handler.NewHealthHandler(opts.Checks)

	requireSession := middleware.Session(opts.SessionHeader, svc.Accounts)
	optionalSession := middleware.OptionalSession(opts.SessionHeader, svc.Accounts)

	apiGroup := e.Group("/api")

	// --- Accounts ---
	apiGroup.POST("/register", accountHandler.Register)
	apiGroup.POST("/login", accountHandler.Login)
	apiGroup.POST("/logout", accountHandler.Logout)
	apiGroup.GET("/animals", accountHandler.GetAnimals, requireSession)
	apiGroup.POST("/animals", accountHandler.SetAnimals, requireSession)
	apiGroup.POST("/animals/reset", accountHandler.ResetAnimals, requireSession)

	// --- Community ---
	community := apiGroup.Group("/community")
	community.GET("/leaderboard", communityHandler.Leaderboard)
	community.GET("/recipes", communityHandler.ListRecipes)
	community.POST("/share-recipe", communityHandler.ShareRecipe, requireSession)
	community.POST("/like/:recipeId", communityHandler.Like, requireSession)
	community.POST("/comment/:recipeId", communityHandler.Comment, requireSession)

	// --- Nutrition ---
	nutrition := apiGroup.Group("/nutrition", requireSession)
	nutrition.POST("/log", nutritionHandler.LogMeal)
	nutrition.GET("/logs", nutritionHandler.ListLogs)
	nutrition.DELETE("/log/:date/:logId", nutritionHandler.DeleteLog)
	nutrition.GET("/goals", nutritionHandler.GetGoals)
	nutrition.POST("/goals", nutritionHandler.SetGoals)

	// --- Analysis and recipe catalog ---
	apiGroup.POST("/analyze", analysisHandler.Analyze, optionalSession)
	apiGroup.GET("/recipes/random", catalogHandler.Random)
	apiGroup.GET("/recipes/search", catalogHandler.Search)
	apiGroup.GET("/recipes/:id", catalogHandler.Get)

	// --- Operational ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
