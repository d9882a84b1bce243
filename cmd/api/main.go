package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/savefarm/savefarm/internal/app"
	"github.com/savefarm/savefarm/internal/pkg/config"
	"github.com/savefarm/savefarm/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title                       savefarm API
// @version                     1.0
// @description                 Recipe impact analysis, animal tallies, nutrition logs and a community recipe feed.
// @BasePath                    /
// @securityDefinitions.apikey  SessionAuth
// @in                          header
// @name                        X-Session-Id
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "savefarm",
		Env:     cfg.Env,
		Version: version,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, cfg, logger.Component("app"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init app")
	}

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped")
		os.Exit(1)
	}
}
