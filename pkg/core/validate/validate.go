// Package validate scores extracted metrics and computed free cash flows.
// Every check here is advisory: callers decide whether an error should stop them.
package validate

import (
	"fmt"
	"math"
)

// =============================================================================
// YEAR-OVER-YEAR (YoY) CALCULATIONS
// =============================================================================

// CalculateYoY calculates year-over-year change between two values.
// Returns percentage change: (current - prior) / |prior| * 100
func CalculateYoY(current, prior float64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return math.Inf(1) // Infinite growth from zero
	}
	return (current - prior) / math.Abs(prior) * 100
}

// =============================================================================
// CAGR (Compound Annual Growth Rate)
// =============================================================================

// CalculateCAGR calculates compound annual growth rate as a percentage.
// CAGR = ((EndValue / StartValue) ^ (1/years)) - 1
//
// Returns 0 when the start value is not positive or the end value is negative,
// where the rate has no meaning.
func CalculateCAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || endValue < 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/float64(years)) - 1) * 100
}

// =============================================================================
// OUTLIER DETECTION
// =============================================================================

// OutlierCheck identifies suspicious period-over-period moves.
type OutlierCheck struct {
	Item       string
	Value      float64
	PriorValue float64
	ChangePct  float64
	IsOutlier  bool
	Reason     string
	Threshold  float64
}

// CheckForOutlier identifies if a value change is suspicious.
func CheckForOutlier(item string, current, prior, thresholdPct float64) *OutlierCheck {
	changePct := CalculateYoY(current, prior)

	check := &OutlierCheck{
		Item:       item,
		Value:      current,
		PriorValue: prior,
		ChangePct:  changePct,
		Threshold:  thresholdPct,
	}

	// Zero after a non-zero period usually means a cell was not read
	if current == 0 && prior != 0 {
		check.IsOutlier = true
		check.Reason = "value dropped to zero (likely extraction gap)"
		return check
	}

	// Growth from zero is not an outlier on its own
	if prior == 0 {
		return check
	}

	if math.Abs(changePct) > thresholdPct {
		check.IsOutlier = true
		check.Reason = fmt.Sprintf("change of %.1f%% exceeds threshold of %.1f%%", changePct, thresholdPct)
	}
	return check
}

// =============================================================================
// DISPERSION
// =============================================================================

// CoefficientOfVariation returns population stddev / |mean|.
// ok is false for fewer than two values or a zero mean.
func CoefficientOfVariation(values []float64) (cv float64, ok bool) {
	if len(values) < 2 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0, false
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq/float64(len(values))) / math.Abs(mean), true
}
