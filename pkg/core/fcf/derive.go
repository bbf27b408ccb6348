package fcf

import (
	"math"

	"fcf_analysis/pkg/models"
)

// =============================================================================
// LTM MERGE
// =============================================================================

// MergeLTM replaces the most recent annual value with the trailing-twelve-months
// figure (the last element of ltm).
//
// An empty ltm leaves annual unchanged. With no annual history the LTM figure
// becomes a single-period series.
func MergeLTM(annual, ltm models.Series) models.Series {
	latest, ok := ltm.Last()
	switch {
	case !ok && len(annual) == 0:
		return models.Series{}
	case !ok:
		return annual.Clone()
	case len(annual) == 0:
		return models.Series{latest}
	}
	out := annual.Clone()
	out[len(out)-1] = latest
	return out
}

// =============================================================================
// DERIVED SERIES
// =============================================================================

// TaxRates derives the effective tax rate per period.
//
// FORMULA: t = min(|Tax Expense| / |EBT|, cap)   when |EBT| > ε
//
//	t = fallback                          otherwise
//
// The series is as long as the longer input. A period with EBT but no tax entry
// was reported as zero tax (the extractor drops trailing zeros); a period without
// EBT uses the fallback. With both inputs absent it is the fallback over refLen periods.
func TaxRates(tax, ebt models.Series, refLen int, s Settings) models.Series {
	s = s.normalized()
	n := max(len(tax), len(ebt))
	if n == 0 {
		n = refLen
	}

	out := make(models.Series, n)
	for i := range out {
		out[i] = s.FallbackTaxRate
		if i >= len(ebt) || math.Abs(ebt[i]) <= s.Epsilon {
			continue
		}
		var taxVal float64
		if i < len(tax) {
			taxVal = tax[i]
		}
		out[i] = math.Min(math.Abs(taxVal)/math.Abs(ebt[i]), s.TaxRateCap)
	}
	return out
}

// NetBorrowing adds debt issued and debt repaid per period. Repayments are reported
// negative, so the sum is the net new borrowing. The series covers at least refLen
// periods; missing entries count as zero.
//
// FORMULA: NB = Debt Issued + Debt Repaid
func NetBorrowing(issued, repaid models.Series, refLen int) models.Series {
	out := models.Zeros(max(len(issued), len(repaid), refLen))
	for i := range out {
		if i < len(issued) {
			out[i] += issued[i]
		}
		if i < len(repaid) {
			out[i] += repaid[i]
		}
	}
	return out
}

// WorkingCapitalChanges returns the period-over-period change in net working capital.
// The first period has no predecessor and is 0.
//
// FORMULA: ΔWC_t = (CA_t - CL_t) - (CA_{t-1} - CL_{t-1})
func WorkingCapitalChanges(currentAssets, currentLiabilities models.Series) models.Series {
	n := min(len(currentAssets), len(currentLiabilities))
	out := make(models.Series, n)
	for i := 1; i < n; i++ {
		wc := currentAssets[i] - currentLiabilities[i]
		prev := currentAssets[i-1] - currentLiabilities[i-1]
		out[i] = wc - prev
	}
	return out
}
