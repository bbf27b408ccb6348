// Package valuation values a company from its FCF history and a set of
// analyst assumptions: DCF on any FCF type, a Gordon dividend model and a
// justified price-to-book.
package valuation

import "math"

// =============================================================================
// COST OF CAPITAL
// =============================================================================

// WACCInput parameters for the cost of capital.
type WACCInput struct {
	UnleveredBeta     float64
	RiskFreeRate      float64
	MarketRiskPremium float64
	PreTaxCostOfDebt  float64
	TaxRate           float64
	DebtToEquityRatio float64 // target leverage D/E
}

// WACCResult holds the derived rates.
type WACCResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after tax
	WACC         float64 `json:"wacc"`
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
}

// LeveredBeta re-levers an asset beta with the Hamada equation.
//
// FORMULA: β_L = β_U × (1 + (1 - t) × D/E)
func LeveredBeta(unlevered, taxRate, debtToEquity float64) float64 {
	return unlevered * (1 + (1-taxRate)*debtToEquity)
}

// CostOfEquityCAPM returns the required return on equity.
//
// FORMULA: r_e = r_f + β × MRP
func CostOfEquityCAPM(riskFreeRate, beta, marketRiskPremium float64) float64 {
	return riskFreeRate + beta*marketRiskPremium
}

// CalculateWACC computes the weighted average cost of capital.
//
// FORMULA: WACC = r_e × E/V + r_d × (1 - t) × D/V
//
// With D/E = x the weights are D/V = x/(1+x) and E/V = 1/(1+x).
func CalculateWACC(in WACCInput) WACCResult {
	beta := LeveredBeta(in.UnleveredBeta, in.TaxRate, in.DebtToEquityRatio)
	ke := CostOfEquityCAPM(in.RiskFreeRate, beta, in.MarketRiskPremium)
	kd := in.PreTaxCostOfDebt * (1 - in.TaxRate)

	wd := in.DebtToEquityRatio / (1 + in.DebtToEquityRatio)
	we := 1 / (1 + in.DebtToEquityRatio)

	return WACCResult{
		LeveredBeta:  beta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         ke*we + kd*wd,
		WeightDebt:   wd,
		WeightEquity: we,
	}
}

// =============================================================================
// DISCOUNTING
// =============================================================================

// PresentValue discounts a single end-of-period cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, rate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+rate, float64(periods))
}

// PresentValueOfCashFlows discounts a stream of end-of-period cash flows.
//
// FORMULA: PV = Σ CF_t / (1 + r)^t
func PresentValueOfCashFlows(cashFlows []float64, rate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += PresentValue(cf, rate, t+1)
	}
	return pv
}

// GordonValue capitalises next period's cash flow at a constant growth rate.
// Returns false when the rate does not exceed growth.
//
// FORMULA: TV = CF_{t+1} / (r - g)
func GordonValue(nextCashFlow, rate, growth float64) (float64, bool) {
	if rate <= growth {
		return 0, false
	}
	return nextCashFlow / (rate - growth), true
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
