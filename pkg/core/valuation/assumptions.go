package valuation

import (
	"fmt"
	"os"

	"fcf_analysis/pkg/core/utils"
	"fcf_analysis/pkg/models"
)

// Assumptions are the analyst inputs of the valuation models. Rates are decimals
// (0.05 = 5%). Monetary amounts and share counts must use the statement units.
type Assumptions struct {
	ProjectionYears int     `json:"projection_years"`
	GrowthRate      float64 `json:"growth_rate"`
	TerminalGrowth  float64 `json:"terminal_growth"`

	RiskFreeRate      float64 `json:"risk_free_rate"`
	UnleveredBeta     float64 `json:"unlevered_beta"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtToEquity      float64 `json:"debt_to_equity"`

	// Overrides; zero derives the rate from the CAPM inputs above.
	DiscountRate float64 `json:"discount_rate"`
	CostOfEquity float64 `json:"cost_of_equity"`

	SharesOutstanding float64 `json:"shares_outstanding"`
	NetDebt           float64 `json:"net_debt"`

	DividendPerShare  float64 `json:"dividend_per_share"`
	BookValuePerShare float64 `json:"book_value_per_share"`
	ReturnOnEquity    float64 `json:"return_on_equity"`
}

// DefaultAssumptions returns a five-year, 2.5% terminal growth baseline.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		ProjectionYears:   5,
		GrowthRate:        0.05,
		TerminalGrowth:    0.025,
		RiskFreeRate:      0.043,
		UnleveredBeta:     1.0,
		MarketRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.06,
		TaxRate:           0.21,
	}
}

// LoadAssumptions reads an Hjson file over the defaults.
func LoadAssumptions(path string) (Assumptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Assumptions{}, fmt.Errorf("read assumptions: %w", err)
	}
	return ParseAssumptions(data)
}

// ParseAssumptions decodes Hjson over the defaults and validates the result.
func ParseAssumptions(data []byte) (Assumptions, error) {
	a := DefaultAssumptions()
	if err := utils.DecodeHJSON(data, &a); err != nil {
		return Assumptions{}, fmt.Errorf("parse assumptions: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Assumptions{}, err
	}
	return a, nil
}

// Validate checks the ranges every model relies on.
func (a Assumptions) Validate() error {
	switch {
	case a.ProjectionYears < 1 || a.ProjectionYears > 30:
		return &models.ValidationError{Field: "projection_years", Reason: fmt.Sprintf("%d outside 1..30", a.ProjectionYears)}
	case a.GrowthRate <= -1:
		return &models.ValidationError{Field: "growth_rate", Reason: "must be above -100%"}
	case a.TaxRate < 0 || a.TaxRate >= 1:
		return &models.ValidationError{Field: "tax_rate", Reason: "must be in [0, 1)"}
	case a.DebtToEquity < 0:
		return &models.ValidationError{Field: "debt_to_equity", Reason: "must not be negative"}
	case a.SharesOutstanding < 0:
		return &models.ValidationError{Field: "shares_outstanding", Reason: "must not be negative"}
	}
	return nil
}

// WACC returns the firm discount rate: the override when set, else CAPM and
// Hamada over the capital structure inputs.
func (a Assumptions) WACC() float64 {
	if a.DiscountRate > 0 {
		return a.DiscountRate
	}
	return a.capital().WACC
}

// EquityCost returns the cost of equity: the override when set, else CAPM.
func (a Assumptions) EquityCost() float64 {
	if a.CostOfEquity > 0 {
		return a.CostOfEquity
	}
	return a.capital().CostOfEquity
}

func (a Assumptions) capital() WACCResult {
	return CalculateWACC(WACCInput{
		UnleveredBeta:     a.UnleveredBeta,
		RiskFreeRate:      a.RiskFreeRate,
		MarketRiskPremium: a.MarketRiskPremium,
		PreTaxCostOfDebt:  a.PreTaxCostOfDebt,
		TaxRate:           a.TaxRate,
		DebtToEquityRatio: a.DebtToEquity,
	})
}

// shares prefers the assumption, then the company context.
func (a Assumptions) shares(c models.CompanyContext) (float64, error) {
	if a.SharesOutstanding > 0 {
		return a.SharesOutstanding, nil
	}
	if c.SharesOutstanding.Valid && c.SharesOutstanding.Float64 > 0 {
		return c.SharesOutstanding.Float64, nil
	}
	return 0, &models.ValidationError{Field: "shares_outstanding", Reason: "required for per-share values"}
}

// Map flattens the assumptions for reporting.
func (a Assumptions) Map() map[string]float64 {
	return map[string]float64{
		"projection_years":     float64(a.ProjectionYears),
		"growth_rate":          a.GrowthRate,
		"terminal_growth":      a.TerminalGrowth,
		"risk_free_rate":       a.RiskFreeRate,
		"unlevered_beta":       a.UnleveredBeta,
		"market_risk_premium":  a.MarketRiskPremium,
		"pre_tax_cost_of_debt": a.PreTaxCostOfDebt,
		"tax_rate":             a.TaxRate,
		"debt_to_equity":       a.DebtToEquity,
		"shares_outstanding":   a.SharesOutstanding,
		"net_debt":             a.NetDebt,
	}
}
