package fcf

import (
	"fcf_analysis/pkg/core/excel"
	"fcf_analysis/pkg/core/report"
	"fcf_analysis/pkg/core/statements"
	"fcf_analysis/pkg/models"

	"github.com/rs/zerolog"
)

// Calculator derives the metrics bundle from loaded statements and computes the
// FCF series. One calculator serves one company run and is not safe for
// concurrent use.
type Calculator struct {
	settings  Settings
	specs     []MetricSpec
	extractor *excel.Extractor
	logger    zerolog.Logger

	stmts      *statements.Statements
	run        *report.Run
	metrics    models.MetricsBundle
	calculated bool
	results    models.FCFResultSet
}

// NewCalculator builds a calculator. A nil specs slice uses DefaultMetricSpecs.
func NewCalculator(settings Settings, specs []MetricSpec, extractor *excel.Extractor, logger zerolog.Logger) *Calculator {
	if specs == nil {
		specs = DefaultMetricSpecs()
	}
	if extractor == nil {
		extractor = excel.NewExtractor(excel.DefaultLayout(), logger)
	}
	return &Calculator{
		settings:  settings.normalized(),
		specs:     specs,
		extractor: extractor,
		logger:    logger.With().Str("component", "fcf").Logger(),
	}
}

// LoadStatements sets the statements to work on and invalidates cached metrics.
// Findings are recorded on run, which may be nil.
func (c *Calculator) LoadStatements(st *statements.Statements, run *report.Run) {
	c.stmts = st
	c.run = run
	c.metrics = nil
	c.results = nil
	c.calculated = false
}

// Settings returns the effective settings.
func (c *Calculator) Settings() Settings { return c.settings }

// Metrics returns the metrics bundle, building it on first use after a load.
// Repeated calls return the same cached map.
func (c *Calculator) Metrics() models.MetricsBundle {
	if c.calculated {
		return c.metrics
	}
	c.metrics = c.buildMetrics()
	c.calculated = true
	return c.metrics
}

// =============================================================================
// METRICS AGGREGATION
// =============================================================================

func (c *Calculator) buildMetrics() models.MetricsBundle {
	bundle := make(models.MetricsBundle, len(c.specs)+3)

	var fy, ltm statements.Set
	if c.stmts != nil {
		fy, ltm = c.stmts.FY, c.stmts.LTM
	}

	for _, spec := range c.specs {
		annual := models.Series(c.extractor.Extract(fy.Sheet(spec.Statement), spec.Aliases...))

		ltmSheet := ltm.Sheet(spec.Statement)
		if ltmSheet == nil {
			bundle[spec.Name] = MergeLTM(annual, nil)
			continue
		}
		latest := models.Series(c.extractor.ExtractLTM(ltmSheet, spec.Aliases...))
		if len(latest) == 0 && len(annual) > 0 {
			c.logger.Warn().Str("metric", spec.Name).Msg("no LTM value, keeping last annual figure")
			c.run.Warnf("%s: no LTM value, latest period uses the annual figure", spec.Name)
		}
		bundle[spec.Name] = MergeLTM(annual, latest)
	}

	ref := referenceLength(bundle)
	if ref > 0 {
		for _, name := range []string{models.MetricCapEx, models.MetricDA} {
			if len(bundle[name]) > 0 {
				continue
			}
			c.logger.Warn().Str("metric", name).Int("periods", ref).Msg("metric missing, substituting zeros")
			c.run.Warnf("%s not reported; assumed zero for %d periods", name, ref)
			bundle[name] = models.Zeros(ref)
		}
	}

	bundle[models.MetricTaxRate] = TaxRates(bundle[models.MetricTaxExpense], bundle[models.MetricEBT], ref, c.settings)
	bundle[models.MetricNetBorrowing] = NetBorrowing(bundle[models.MetricDebtIssued], bundle[models.MetricDebtRepaid], ref)
	bundle[models.MetricWorkingCapitalChange] = WorkingCapitalChanges(bundle[models.MetricCurrentAssets], bundle[models.MetricCurrentLiabilities])

	c.logger.Info().Int("metrics", len(bundle)).Int("periods", ref).Msg("metrics bundle built")
	return bundle
}

// referenceLength is the longest extracted series; zero substitutions use it.
func referenceLength(bundle models.MetricsBundle) int {
	n := 0
	for _, s := range bundle {
		n = max(n, len(s))
	}
	return n
}

// =============================================================================
// FCF CALCULATIONS
// =============================================================================

// CalculateFCFF returns FCFF over the periods where every input is present.
func (c *Calculator) CalculateFCFF() models.Series {
	m := c.Metrics()
	return c.checked(models.FCFF, FCFF(
		m[models.MetricEBIT],
		m[models.MetricTaxRate],
		m[models.MetricDA],
		m[models.MetricWorkingCapitalChange],
		m[models.MetricCapEx],
		c.settings.ScaleFactor,
	))
}

// CalculateFCFE returns FCFE over the periods where every input is present.
func (c *Calculator) CalculateFCFE() models.Series {
	m := c.Metrics()
	return c.checked(models.FCFE, FCFE(
		m[models.MetricNetIncome],
		m[models.MetricDA],
		m[models.MetricWorkingCapitalChange],
		m[models.MetricCapEx],
		m[models.MetricNetBorrowing],
		c.settings.ScaleFactor,
	))
}

// CalculateLFCF returns levered FCF over the periods where every input is present.
func (c *Calculator) CalculateLFCF() models.Series {
	m := c.Metrics()
	return c.checked(models.LFCF, LFCF(
		m[models.MetricOperatingCF],
		m[models.MetricCapEx],
		c.settings.ScaleFactor,
	))
}

func (c *Calculator) checked(kind models.FCFType, s models.Series) models.Series {
	if len(s) == 0 {
		c.logger.Warn().Str("type", string(kind)).Msg("no usable periods")
		return models.Series{}
	}
	c.logger.Debug().Str("type", string(kind)).Int("periods", len(s)).Msg("calculated")
	return s
}

// CalculateAllFCFTypes computes every FCF type and keeps those with at least one
// period. The set replaces any earlier result; statements with no data give an
// empty set.
func (c *Calculator) CalculateAllFCFTypes() models.FCFResultSet {
	calcs := map[models.FCFType]func() models.Series{
		models.FCFF: c.CalculateFCFF,
		models.FCFE: c.CalculateFCFE,
		models.LFCF: c.CalculateLFCF,
	}
	results := models.FCFResultSet{}
	for _, kind := range models.FCFTypes {
		if s := calcs[kind](); len(s) > 0 {
			results[kind] = s
		}
	}
	c.results = results
	return results
}

// Results returns the last computed set, or nil before CalculateAllFCFTypes.
func (c *Calculator) Results() models.FCFResultSet { return c.results }
