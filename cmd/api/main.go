// Command api serves the FCF HTTP API with settings from config/fcf.yaml and
// the environment.
package main

import (
	"context"
	"flag"
	"os"

	"fcf_analysis/pkg/app"
	"fcf_analysis/pkg/config"
	"fcf_analysis/pkg/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logger := config.NewLogger(os.Stdout, cfg, false)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load configuration")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger, app.Options{Quotes: true, Store: true})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	logger.Info().
		Str("data_root", cfg.DataRoot).
		Bool("database", cfg.Database.URL != "").
		Msg("configuration loaded")

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		DataRoot:        cfg.DataRoot,
		Dependencies: server.Dependencies{
			Analyzer: a.Analyzer,
			Results:  a.Results,
		},
	})
	if err := api.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		a.Close()
		os.Exit(1)
	}
}
