// Package fcf turns loaded financial statements into the metrics bundle and the
// three free cash flow series: FCFF, FCFE and levered FCF.
package fcf

import (
	"fcf_analysis/pkg/core/statements"
	"fcf_analysis/pkg/models"
)

// Settings holds the constants of the metric derivations.
type Settings struct {
	TaxRateCap      float64 `yaml:"tax_rate_cap"`
	FallbackTaxRate float64 `yaml:"fallback_tax_rate"`
	Epsilon         float64 `yaml:"epsilon"`
	// ScaleFactor multiplies every FCF value. 1 keeps the statement's own units.
	ScaleFactor float64 `yaml:"scale_factor"`
}

// DefaultSettings returns a 35% tax cap, 25% fallback rate and unit scale.
func DefaultSettings() Settings {
	return Settings{
		TaxRateCap:      0.35,
		FallbackTaxRate: 0.25,
		Epsilon:         1e-6,
		ScaleFactor:     1,
	}
}

func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.TaxRateCap <= 0 {
		s.TaxRateCap = d.TaxRateCap
	}
	if s.FallbackTaxRate <= 0 {
		s.FallbackTaxRate = d.FallbackTaxRate
	}
	if s.Epsilon <= 0 {
		s.Epsilon = d.Epsilon
	}
	if s.ScaleFactor == 0 {
		s.ScaleFactor = d.ScaleFactor
	}
	return s
}

// MetricSpec says where a metric lives and which row labels may carry it.
// Aliases are tried in order.
type MetricSpec struct {
	Name      string          `yaml:"name"`
	Statement statements.Kind `yaml:"statement"`
	Aliases   []string        `yaml:"aliases"`
}

// DefaultMetricSpecs returns the labels used by common data vendors.
// Specific labels come before short ones so "EBIT" does not land on an EBITDA row.
func DefaultMetricSpecs() []MetricSpec {
	return []MetricSpec{
		{models.MetricEBIT, statements.Income, []string{"Operating Income", "EBIT", "Income from Operations"}},
		{models.MetricNetIncome, statements.Income, []string{"Net Income", "Net Income to Common", "Net Earnings"}},
		{models.MetricTaxExpense, statements.Income, []string{"Income Tax Expense", "Provision for Income Taxes", "Tax Expense", "Income Taxes"}},
		{models.MetricEBT, statements.Income, []string{"EBT, Incl. Unusual Items", "Pretax Income", "Income Before Taxes", "Earnings Before Taxes", "EBT"}},
		{models.MetricCurrentAssets, statements.Balance, []string{"Total Current Assets", "Current Assets"}},
		{models.MetricCurrentLiabilities, statements.Balance, []string{"Total Current Liabilities", "Current Liabilities"}},
		{models.MetricDA, statements.Cash, []string{"Depreciation & Amortization", "Depreciation and Amortization", "Depreciation & Amort., Total", "D&A"}},
		{models.MetricOperatingCF, statements.Cash, []string{"Cash from Operations", "Net Cash from Operating Activities", "Operating Cash Flow", "Cash Flow from Operations"}},
		{models.MetricCapEx, statements.Cash, []string{"Capital Expenditure", "Capital Expenditures", "Purchase of Property, Plant and Equipment", "CapEx"}},
		{models.MetricDebtIssued, statements.Cash, []string{"Total Debt Issued", "Debt Issued", "Issuance of Debt"}},
		{models.MetricDebtRepaid, statements.Cash, []string{"Total Debt Repaid", "Debt Repaid", "Repayment of Debt"}},
	}
}

// MergeSpecs overlays configured specs on the defaults by metric name.
// Unknown names are appended.
func MergeSpecs(base, overrides []MetricSpec) []MetricSpec {
	out := make([]MetricSpec, len(base))
	copy(out, base)
	for _, o := range overrides {
		replaced := false
		for i := range out {
			if out[i].Name != o.Name {
				continue
			}
			if o.Statement != "" {
				out[i].Statement = o.Statement
			}
			if len(o.Aliases) > 0 {
				out[i].Aliases = o.Aliases
			}
			replaced = true
			break
		}
		if !replaced && o.Name != "" {
			out = append(out, o)
		}
	}
	return out
}
