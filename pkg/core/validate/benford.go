package validate

import (
	"math"

	"fcf_analysis/pkg/models"
)

// =============================================================================
// BENFORD FIRST-DIGIT CHECK
// =============================================================================

// benfordExpected is the expected frequency of leading digits 1-9.
var benfordExpected = [10]float64{0, 0.30103, 0.17609, 0.12494, 0.09691, 0.07918, 0.06695, 0.05799, 0.05115, 0.04576}

// MinBenfordSample is the smallest number of values the check will grade.
const MinBenfordSample = 30

// BenfordResult is the leading-digit profile of a set of values.
type BenfordResult struct {
	Counts [10]int `json:"counts"` // index = digit, 0 unused
	Total  int     `json:"total"`
	MAD    float64 `json:"mad"` // mean absolute deviation from the expected frequencies
	Level  string  `json:"level"`
}

// Nonconforming reports whether the sample is large enough and deviates strongly.
func (b BenfordResult) Nonconforming() bool { return b.Level == "high" }

// LeadingDigit returns the first significant digit of |v|, or 0 for zero,
// NaN and Inf.
func LeadingDigit(v float64) int {
	v = math.Abs(v)
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	m := v / math.Pow(10, math.Floor(math.Log10(v)))
	// Log10 can land one step off near exact powers of ten.
	for m >= 10 {
		m /= 10
	}
	for m < 1 {
		m *= 10
	}
	return int(m)
}

// Benford profiles values with magnitude at least 1.
//
// FORMULA:
//
//	MAD = Σ |observed(d) - expected(d)| / 9, d = 1..9
//
// Levels: "insufficient" below MinBenfordSample values, "high" above 0.015,
// "medium" above 0.010, "low" otherwise.
func Benford(values []float64) BenfordResult {
	var r BenfordResult
	for _, v := range values {
		if math.Abs(v) < 1 {
			continue
		}
		if d := LeadingDigit(v); d > 0 {
			r.Counts[d]++
			r.Total++
		}
	}
	if r.Total == 0 {
		r.Level = "insufficient"
		return r
	}

	sum := 0.0
	for d := 1; d <= 9; d++ {
		sum += math.Abs(float64(r.Counts[d])/float64(r.Total) - benfordExpected[d])
	}
	r.MAD = sum / 9

	switch {
	case r.Total < MinBenfordSample:
		r.Level = "insufficient"
	case r.MAD > 0.015:
		r.Level = "high"
	case r.MAD > 0.010:
		r.Level = "medium"
	default:
		r.Level = "low"
	}
	return r
}

// bundleValues flattens the extracted statement lines, skipping derived series.
func bundleValues(bundle models.MetricsBundle) []float64 {
	var out []float64
	for _, name := range models.ExtractedMetrics {
		out = append(out, bundle.Get(name)...)
	}
	return out
}
