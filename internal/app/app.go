// Package app wires configuration, storage, sessions and the HTTP router into
// a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/savefarm/savefarm/internal/api"
	"github.com/savefarm/savefarm/internal/api/handler"
	"github.com/savefarm/savefarm/internal/api/metrics"
	"github.com/savefarm/savefarm/internal/core/impact"
	"github.com/savefarm/savefarm/internal/core/ports"
	"github.com/savefarm/savefarm/internal/core/service"
	"github.com/savefarm/savefarm/internal/infrastructure/db/jsonfile"
	mongodb "github.com/savefarm/savefarm/internal/infrastructure/db/mongo"
	redisdb "github.com/savefarm/savefarm/internal/infrastructure/db/redis"
	"github.com/savefarm/savefarm/internal/infrastructure/inference"
	"github.com/savefarm/savefarm/internal/infrastructure/mealdb"
	"github.com/savefarm/savefarm/internal/infrastructure/session"
	"github.com/savefarm/savefarm/internal/pkg/config"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	cfg     *config.Config
	log     zerolog.Logger
	engine  *echo.Echo
	closers []func(context.Context) error
}

// New connects the configured backends and builds the router. Everything
// opened before a failure is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *Application, err error) {
	a := &Application{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	checks := make(map[string]handler.Pinger)

	accounts, recipes, err := a.openStorage(ctx, checks)
	if err != nil {
		return nil, err
	}

	sessions, err := a.openSessions(ctx, checks)
	if err != nil {
		return nil, err
	}

	policy, err := impact.ParseMatchPolicy(cfg.Impact.MatchPolicy)
	if err != nil {
		return nil, err
	}
	analyzer := impact.New(impact.WithMatchPolicy(policy), impact.WithNumericAmounts(cfg.Impact.Numeric))

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	var inferenceClient ports.InferenceClient
	if cfg.InferenceEnabled() {
		fallbacks := cfg.HF.FallbackModels
		if len(fallbacks) == 0 {
			fallbacks = inference.DefaultFallbackModels
		}
		inferenceClient = &inference.Client{
			BaseURL:        cfg.HF.BaseURL,
			Token:          cfg.HF.Token,
			Model:          cfg.HF.Model,
			FallbackModels: fallbacks,
			HTTPClient:     httpClient,
		}
		log.Info().Str("model", cfg.HF.Model).Msg("model inference enabled")
	} else {
		log.Info().Msg("HF_TOKEN not configured, using the keyword heuristic only")
	}

	catalog := &mealdb.Client{BaseURL: cfg.MealDB.BaseURL, HTTPClient: httpClient}

	a.engine = api.NewRouter(api.Services{
		Accounts:  service.NewAccountService(accounts, sessions, log),
		Nutrition: service.NewNutritionService(accounts, log),
		Community: service.NewCommunityService(accounts, recipes, log),
		Analysis:  service.NewAnalysisService(analyzer, inferenceClient, log),
		Catalog:   service.NewCatalogService(catalog, log),
	}, api.Options{
		Log:           log,
		SessionHeader: cfg.Session.Header,
		AllowOrigins:  cfg.CORS.AllowOrigins,
		Checks:        checks,
	})

	return a, nil
}

func (a *Application) openStorage(ctx context.Context, checks map[string]handler.Pinger) (ports.AccountRepository, ports.RecipeRepository, error) {
	switch a.cfg.StorageBackend {
	case config.StorageMongo:
		store, err := mongodb.Open(ctx, mongodb.Config{
			URI:            a.cfg.Mongo.URI,
			Database:       a.cfg.Mongo.Database,
			ConnectTimeout: a.cfg.Mongo.ConnectTimeout,
			PingTimeout:    a.cfg.Mongo.PingTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init mongo: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		checks["mongodb"] = store
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongo storage")
		return store.Accounts, store.Recipes, nil

	default:
		store, err := jsonfile.Open(a.cfg.DataDir,
			jsonfile.WithLogger(a.log),
			jsonfile.WithWriteObserver(func(document string, elapsed time.Duration) {
				metrics.DocumentWriteDuration.WithLabelValues(document).Observe(elapsed.Seconds())
			}),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("init document store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		checks["documents"] = store
		a.log.Info().Str("dir", a.cfg.DataDir).Msg("using JSON document storage")
		return store.Accounts, store.Recipes, nil
	}
}

func (a *Application) openSessions(ctx context.Context, checks map[string]handler.Pinger) (ports.SessionStore, error) {
	var rdb *redisdb.Client
	if a.cfg.NeedsRedis() {
		client, err := redisdb.Open(ctx, redisdb.Config{
			Addr:        a.cfg.Redis.Addr,
			DB:          a.cfg.Redis.DB,
			KeyPrefix:   a.cfg.Redis.KeyPrefix,
			DialTimeout: a.cfg.Redis.DialTimeout,
			PingTimeout: a.cfg.Redis.PingTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		checks["redis"] = client
		rdb = client
	}

	ttl := a.cfg.Session.TTL
	switch a.cfg.Session.Backend {
	case config.SessionRedis:
		return rdb.Sessions(ttl), nil
	case config.SessionJWT:
		var revoked session.Revocations
		if rdb != nil {
			revoked = rdb.Revocations()
		}
		return session.NewJWTStore(a.cfg.Session.Secret, ttl, revoked)
	default:
		return session.NewMemoryStore(ttl), nil
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer a.close(context.Background())

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.log.Info().
		Str("env", a.cfg.Env).
		Str("address", srv.Addr).
		Str("storage", a.cfg.StorageBackend).
		Str("sessions", a.cfg.Session.Backend).
		Msg("starting savefarm API")

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.engine
}

// close releases backends in reverse order of opening.
func (a *Application) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close backend")
		}
	}
	a.closers = nil
}
