// Package app wires configuration into a ready-to-run analyzer and result store.
package app

import (
	"context"
	"fmt"

	"fcf_analysis/pkg/config"
	"fcf_analysis/pkg/core/market"
	"fcf_analysis/pkg/core/pipeline"
	"fcf_analysis/pkg/core/store"
	"fcf_analysis/pkg/core/valuation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Options selects the optional pipeline stages.
type Options struct {
	Quotes      bool
	Store       bool
	Assumptions *valuation.Assumptions
}

type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Analyzer *pipeline.Analyzer
	Results  *store.ResultRepo // nil unless Options.Store

	pool *pgxpool.Pool
}

// New builds the analyzer. With Store set, results go to Postgres when a
// database URL is configured and to the results directory otherwise.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	a.Analyzer = pipeline.NewAnalyzer(pipeline.Options{
		Layout:           cfg.Layout,
		Settings:         cfg.FCF,
		Specs:            cfg.MetricSpecs(),
		Thresholds:       cfg.Thresholds,
		WriteSidecar:     cfg.WriteSidecar,
		StrictValidation: cfg.StrictValidation,
		Assumptions:      opts.Assumptions,
	}, logger)

	if opts.Quotes {
		a.Analyzer.SetQuoteSource(market.NewClient(cfg.Market, logger))
	}

	if opts.Store {
		var db store.DB
		if cfg.Database.URL != "" {
			pool, err := store.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return nil, fmt.Errorf("connect result store: %w", err)
			}
			a.pool = pool
			db = pool
		}
		a.Results = store.NewResultRepo(db, cfg.Storage.ResultsDir, logger)
		if err := a.Results.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("prepare result store: %w", err)
		}
		a.Analyzer.SetStore(a.Results)
	}
	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
