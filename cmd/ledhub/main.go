package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/api"
	"github.com/urmzd/ledhub/pkg/app"
	"github.com/urmzd/ledhub/pkg/light/schema"

	_ "github.com/urmzd/ledhub/docs"
)

// @title           Ledhub API
// @version         1.0
// @description     REST API for controlling LED strips, HTTP LED panels and MagicHome controllers

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML configuration file")
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/ledhub/ledhub.db)")
	debug := flag.Bool("debug", false, "Use short discovery timeouts at startup")
	flag.Parse()

	// Configure logging
	app.SetupLogging(app.DefaultLogConfig(), os.Stderr)

	cfg, err := app.LoadConfig(*configPath, *dbPath, *debug)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	go a.Run(ctx)

	router := api.NewRouter(api.Dependencies{
		Fleet:     a.Fleet,
		Refresher: a.Scanner,
		Zones:     a.DB.Zones(),
		Values:    a.Values,
		Validator: schema.NewValidator(),
	})

	srv := &http.Server{
		Addr:    cfg.API.Address,
		Handler: router.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.API.Address).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down API server")
	}
}
