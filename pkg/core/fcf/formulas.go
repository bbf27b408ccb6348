package fcf

import (
	"math"

	"fcf_analysis/pkg/models"
)

// All formulas read every input at the same period index and cover the shortest
// input. CapEx is taken in absolute value since vendors disagree on its sign.

// FCFF computes free cash flow to the firm.
//
// FORMULA: FCFF = EBIT × (1 - t) + D&A - ΔWC - |CapEx|
func FCFF(ebit, taxRate, da, wcChange, capex models.Series, scale float64) models.Series {
	n := minLen(ebit, taxRate, da, wcChange, capex)
	out := make(models.Series, n)
	for i := range out {
		nopat := ebit[i] * (1 - taxRate[i])
		out[i] = (nopat + da[i] - wcChange[i] - math.Abs(capex[i])) * scale
	}
	return out
}

// FCFE computes free cash flow to equity.
//
// FORMULA: FCFE = Net Income + D&A - ΔWC - |CapEx| + Net Borrowing
func FCFE(netIncome, da, wcChange, capex, netBorrowing models.Series, scale float64) models.Series {
	n := minLen(netIncome, da, wcChange, capex, netBorrowing)
	out := make(models.Series, n)
	for i := range out {
		out[i] = (netIncome[i] + da[i] - wcChange[i] - math.Abs(capex[i]) + netBorrowing[i]) * scale
	}
	return out
}

// LFCF computes levered free cash flow.
//
// FORMULA: LFCF = Operating Cash Flow - |CapEx|
func LFCF(operatingCF, capex models.Series, scale float64) models.Series {
	n := minLen(operatingCF, capex)
	out := make(models.Series, n)
	for i := range out {
		out[i] = (operatingCF[i] - math.Abs(capex[i])) * scale
	}
	return out
}

func minLen(series ...models.Series) int {
	if len(series) == 0 {
		return 0
	}
	n := len(series[0])
	for _, s := range series[1:] {
		n = min(n, len(s))
	}
	return n
}
