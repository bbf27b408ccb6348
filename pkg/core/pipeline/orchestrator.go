// Package pipeline runs the full analysis of one company folder: load statements,
// build metrics, compute FCF, validate, enrich with market data, value and store.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fcf_analysis/pkg/core/company"
	"fcf_analysis/pkg/core/excel"
	"fcf_analysis/pkg/core/export"
	"fcf_analysis/pkg/core/fcf"
	"fcf_analysis/pkg/core/market"
	"fcf_analysis/pkg/core/report"
	"fcf_analysis/pkg/core/statements"
	"fcf_analysis/pkg/core/store"
	"fcf_analysis/pkg/core/validate"
	"fcf_analysis/pkg/core/valuation"
	"fcf_analysis/pkg/models"

	"github.com/rs/zerolog"
)

// QuoteSource provides a market quote that never fails.
type QuoteSource interface {
	QuoteOrFallback(ctx context.Context, ticker string) market.Quote
}

// ResultStore persists final results.
type ResultStore interface {
	Save(ctx context.Context, rec *store.Record) error
}

// Options configures an Analyzer.
type Options struct {
	Layout       excel.Layout
	Settings     fcf.Settings
	Specs        []fcf.MetricSpec
	Thresholds   validate.Thresholds
	WriteSidecar bool

	// StrictValidation turns validation errors into a failed run.
	StrictValidation bool

	// Assumptions enables the valuation stage when set.
	Assumptions *valuation.Assumptions
}

// Result is everything one run produced.
type Result struct {
	Run        *report.Run           `json:"run"`
	Company    models.CompanyContext `json:"company"`
	Dates      []string              `json:"dates,omitempty"`
	Unit       string                `json:"unit,omitempty"`
	Metrics    models.MetricsBundle  `json:"metrics"`
	FCF        models.FCFResultSet   `json:"fcf"`
	Summary    []fcf.Summary         `json:"summary,omitempty"`
	Validation *validate.Report      `json:"validation"`
	Valuations *valuation.Suite      `json:"valuations,omitempty"`
}

// ExportData adapts the result for the CSV and workbook writers.
func (r *Result) ExportData() export.Data {
	return export.Data{
		Company:    r.Company.Label(),
		Dates:      r.Dates,
		FCF:        r.FCF,
		Metrics:    r.Metrics,
		Validation: r.Validation,
	}
}

// Record converts the result into its stored form.
func (r *Result) Record() *store.Record {
	rec := &store.Record{
		Ticker:     r.Company.Ticker.String,
		RunID:      r.Run.ID,
		Company:    r.Company,
		FCF:        r.FCF,
		Summary:    r.Summary,
		Valuations: r.Valuations,
		Warnings:   r.Run.Warnings,
		Errors:     r.Run.Errors,
	}
	if r.Validation != nil {
		rec.Score = r.Validation.Score
	}
	return rec
}

// Analyzer wires the stages together. Quote source and store are optional.
type Analyzer struct {
	opts   Options
	logger zerolog.Logger
	quotes QuoteSource
	store  ResultStore
}

// NewAnalyzer creates an analyzer without market data or storage.
func NewAnalyzer(opts Options, logger zerolog.Logger) *Analyzer {
	return &Analyzer{opts: opts, logger: logger}
}

// SetQuoteSource enables market enrichment.
func (a *Analyzer) SetQuoteSource(q QuoteSource) { a.quotes = q }

// SetStore enables persistence of results.
func (a *Analyzer) SetStore(s ResultStore) { a.store = s }

// Run analyses one company folder. Only structural statement errors, and
// validation errors in strict mode, fail the run; everything else is recorded
// on the run report.
func (a *Analyzer) Run(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	cc := company.FromFolder(dir)
	run := report.NewRun(cc.Label())
	// Stages add their own component field to runLog.
	runLog := a.logger.With().Str("company", cc.Label()).Str("run_id", run.ID.String()).Logger()
	log := runLog.With().Str("component", "pipeline").Logger()
	log.Info().Str("dir", dir).Msg("starting analysis")

	// 1. Statements
	loader := statements.NewLoader(a.opts.Layout, runLog, a.opts.WriteSidecar)
	st, err := loader.Load(dir, run)
	if err != nil {
		log.Error().Err(err).Msg("statements could not be loaded")
		return nil, err
	}

	// 2. Metrics and FCF
	extractor := excel.NewExtractor(a.opts.Layout, runLog)
	calc := fcf.NewCalculator(a.opts.Settings, a.opts.Specs, extractor, runLog)
	calc.LoadStatements(st, run)
	metrics := calc.Metrics()
	results := calc.CalculateAllFCFTypes()

	res := &Result{
		Run:     run,
		Company: cc,
		Dates:   periodDates(st, extractor.Layout()),
		Unit:    st.Unit,
		Metrics: metrics,
		FCF:     results,
		Summary: fcf.Summarize(results),
	}

	// 3. Validation
	res.Validation = validate.NewValidator(a.opts.Thresholds).Validate(metrics, results)
	run.AttachValidation(res.Validation)
	if a.opts.StrictValidation && res.Validation.HasErrors() {
		return res, &models.ValidationError{
			Field:  "fcf",
			Reason: fmt.Sprintf("%d validation errors in strict mode", len(res.Validation.Errors())),
		}
	}

	// 4. Market data
	if a.quotes != nil {
		if symbol := company.YahooSymbol(cc); symbol != "" {
			q := a.quotes.QuoteOrFallback(ctx, symbol)
			res.Company = company.Enrich(res.Company, q)
			if !q.HasPrice() {
				run.Warnf("no market price for %s; upside not computed", symbol)
			}
		}
	}

	// 5. Valuation
	if a.opts.Assumptions != nil {
		suite, err := valuation.RunAll(results, *a.opts.Assumptions, res.Company)
		if err != nil {
			run.Errorf("valuation skipped: %v", err)
		} else {
			for _, s := range suite.Skipped {
				run.Warnf("valuation %s", s)
			}
			res.Valuations = &suite
		}
	}

	// 6. Storage
	if a.store != nil {
		if !res.Company.Ticker.Valid {
			run.Warnf("result not stored: no ticker in folder name")
		} else if err := a.store.Save(ctx, res.Record()); err != nil {
			log.Error().Err(err).Msg("storing result failed")
			run.Errorf("result not stored: %v", err)
		}
	}

	log.Info().
		Int("fcf_types", len(results)).
		Int("periods", results.Periods()).
		Float64("score", res.Validation.Score).
		Int("warnings", len(run.Warnings)).
		Int("errors", len(run.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")
	return res, nil
}

// periodDates reads the FY period header of the first statement that has one.
func periodDates(st *statements.Statements, layout excel.Layout) []string {
	for _, kind := range statements.Kinds {
		if dates := excel.PeriodDates(st.FY.Sheet(kind), layout); len(dates) > 0 {
			return dates
		}
	}
	return nil
}
