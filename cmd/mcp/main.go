package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/app"
	"github.com/urmzd/ledhub/pkg/light/schema"
	ledmcp "github.com/urmzd/ledhub/pkg/mcp"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML configuration file")
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/ledhub/ledhub.db)")
	debug := flag.Bool("debug", false, "Use short discovery timeouts at startup")
	flag.Parse()

	// Logging must go to stderr, stdout is the MCP transport
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

	// Create and start MCP server
	mcpServer := ledmcp.NewServer(a.Fleet, a.Scanner, schema.NewValidator())

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
	}
}
