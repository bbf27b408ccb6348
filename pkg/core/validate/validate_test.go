package validate

import (
	"math"
	"strings"
	"testing"

	"fcf_analysis/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// REAL APPLE DATA FOR TESTING (FY2020 - FY2024)
// =============================================================================
// Source: Apple Inc. Annual 10-K Reports. All values in millions USD, oldest first.

var (
	appleNetIncome = models.Series{57411, 94680, 99803, 96995, 93736}
	appleCFO       = models.Series{80674, 104038, 122151, 110543, 118254}
	appleCapEx     = models.Series{-7309, -11085, -10708, -10959, -9447}
)

func appleLFCF() models.Series {
	out := make(models.Series, len(appleCFO))
	for i := range appleCFO {
		out[i] = appleCFO[i] - math.Abs(appleCapEx[i])
	}
	return out
}

// =============================================================================
// YoY / CAGR
// =============================================================================

func TestCalculateYoY(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		prior    float64
		expected float64
	}{
		{"Positive growth", 110, 100, 10.0},
		{"Negative growth", 90, 100, -10.0},
		{"Zero growth", 100, 100, 0.0},
		{"Double", 200, 100, 100.0},
		{"Loss narrowing", -50, -100, 50.0},
		{"Both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateYoY(tt.current, tt.prior), 0.01)
		})
	}

	assert.True(t, math.IsInf(CalculateYoY(5, 0), 1))
}

func TestCalculateCAGR(t *testing.T) {
	// $100 growing to $121 over 2 years = 10% CAGR
	assert.InDelta(t, 10.0, CalculateCAGR(100, 121, 2), 0.01)

	// Apple net income 2020 → 2024 grew
	assert.Greater(t, CalculateCAGR(appleNetIncome[0], appleNetIncome[4], 4), 0.0)

	assert.Equal(t, 0.0, CalculateCAGR(-10, 50, 3))
	assert.Equal(t, 0.0, CalculateCAGR(10, -50, 3))
	assert.Equal(t, 0.0, CalculateCAGR(10, 50, 0))
}

// =============================================================================
// OUTLIER DETECTION
// =============================================================================

func TestCheckForOutlier(t *testing.T) {
	check := CheckForOutlier("Revenue", 105, 100, 50.0)
	assert.False(t, check.IsOutlier, "normal 5%% growth flagged")

	check = CheckForOutlier("Revenue", 0, 100, 50.0)
	assert.True(t, check.IsOutlier)
	t.Logf("Zero outlier reason: %s", check.Reason)

	check = CheckForOutlier("Revenue", 200, 100, 50.0)
	assert.True(t, check.IsOutlier)

	check = CheckForOutlier("Revenue", 100, 0, 50.0)
	assert.False(t, check.IsOutlier, "growth from zero is not an outlier on its own")
}

func TestCoefficientOfVariation(t *testing.T) {
	cv, ok := CoefficientOfVariation([]float64{10, 10, 10})
	require.True(t, ok)
	assert.Equal(t, 0.0, cv)

	cv, ok = CoefficientOfVariation([]float64{1, 3})
	require.True(t, ok)
	assert.InDelta(t, 0.5, cv, 1e-9)

	_, ok = CoefficientOfVariation([]float64{5})
	assert.False(t, ok)
	_, ok = CoefficientOfVariation([]float64{-1, 1})
	assert.False(t, ok)
}

// =============================================================================
// QUALITY REPORT
// =============================================================================

func TestValidateFCF_CleanApple(t *testing.T) {
	lfcf := appleLFCF()
	results := models.FCFResultSet{
		models.FCFF: lfcf,
		models.FCFE: lfcf,
		models.LFCF: lfcf,
	}

	r := NewValidator(DefaultThresholds()).ValidateFCF(results)
	t.Log(r.Summary())

	assert.Empty(t, r.Issues)
	assert.Equal(t, 100.0, r.Score)
}

func TestValidateFCF_Flags(t *testing.T) {
	results := models.FCFResultSet{
		models.FCFF: {-10, -20, -5},
		models.LFCF: {1, 2e12, 3},
	}

	r := NewValidator(Thresholds{}).ValidateFCF(results)

	require.True(t, r.HasErrors())
	assert.Equal(t, []string{"FCFE: no periods could be calculated"}, r.Errors())
	assert.Contains(t, r.Warnings(), "FCFF: negative in every period")

	assert.Contains(t, r.Warnings(), "LFCF: period 2 value 2e+12 exceeds 1e+12")
	assert.Len(t, r.Warnings(), 2, "cv of LFCF is about 1.41, under the limit")

	assert.InDelta(t, 66.7, r.Completeness, 0.01)
	assert.Less(t, r.Score, 100.0)
}

func TestValidateFCF_HighDispersion(t *testing.T) {
	results := models.FCFResultSet{
		models.FCFF: {1, 1, 1, 40},
		models.FCFE: {5, 6, 7},
		models.LFCF: {5, 6, 7},
	}
	r := NewValidator(DefaultThresholds()).ValidateFCF(results)
	assert.Empty(t, r.Errors())
	require.Len(t, r.Warnings(), 0, "cv of {1,1,1,40} is about 1.57")

	results[models.FCFF] = models.Series{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, -0.1, 10}
	r = NewValidator(DefaultThresholds()).ValidateFCF(results)
	require.Len(t, r.Warnings(), 1)
}

func TestValidate_CarriesFCFChecks(t *testing.T) {
	results := models.FCFResultSet{
		models.FCFF: {-10, -20, -5},
		models.LFCF: {1, 2e12, 3},
	}
	v := NewValidator(DefaultThresholds())

	fcfOnly := v.ValidateFCF(results)
	r := v.Validate(models.MetricsBundle{}, results)

	require.NotEmpty(t, fcfOnly.Issues)
	assert.Subset(t, r.Issues, fcfOnly.Issues)
	assert.Equal(t, fcfOnly.Errors(), r.Errors())
	assert.Contains(t, r.Warnings(), "EBIT: metric not found in statements")
}

func TestValidate_MetricsAndScore(t *testing.T) {
	bundle := models.MetricsBundle{
		models.MetricEBIT:        {100, 110, 120},
		models.MetricNetIncome:   appleNetIncome,
		models.MetricOperatingCF: appleCFO,
		models.MetricCapEx:       {0, 0, 0},
		models.MetricDA:          {10, 0, 12},
	}
	results := models.FCFResultSet{models.LFCF: appleLFCF()}

	r := NewValidator(DefaultThresholds()).Validate(bundle, results)
	t.Log(r.Summary())

	warnings := r.Warnings()
	assert.Contains(t, warnings, "CapEx: all 3 periods are zero")
	assert.Contains(t, warnings, "Tax Expense: metric not found in statements")
	assert.Contains(t, warnings, "D&A: period 2: value dropped to zero (likely extraction gap)")
	for _, w := range warnings {
		assert.NotContains(t, w, "Debt", "debt lines are optional")
	}
	assert.Len(t, r.Errors(), 2)

	// 5 of 11 metrics and 1 of 3 FCF types present
	assert.InDelta(t, 42.9, r.Completeness, 0.01)
	assert.GreaterOrEqual(t, r.Score, 0.0)
	assert.LessOrEqual(t, r.Score, 100.0)
}

// =============================================================================
// BENFORD
// =============================================================================

func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{105, 1}, {1500, 1}, {1000, 1}, {19, 1},
		{-300, 3}, {9.9, 9}, {999999, 9}, {0.5, 5},
		{0, 0}, {math.NaN(), 0}, {math.Inf(1), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LeadingDigit(tt.in), "LeadingDigit(%v)", tt.in)
	}
}

func TestBenford_Counts(t *testing.T) {
	res := Benford([]float64{105, 1500, 19, 200, 25, -300, 0.5, 9.9})

	assert.Equal(t, 7, res.Total, "0.5 is skipped")
	assert.Equal(t, 3, res.Counts[1])
	assert.Equal(t, 2, res.Counts[2])
	assert.Equal(t, 1, res.Counts[9])
	assert.Equal(t, "insufficient", res.Level)
	assert.False(t, res.Nonconforming())
}

func TestBenford_Levels(t *testing.T) {
	// Powers of 1.1 are a classic Benford-conforming sequence.
	var conforming []float64
	v := 1.0
	for i := 0; i < 500; i++ {
		conforming = append(conforming, v)
		v *= 1.1
	}
	res := Benford(conforming)
	assert.Equal(t, "low", res.Level)
	assert.Less(t, res.MAD, 0.006)

	// Every value starts with 5.
	fives := make([]float64, 40)
	for i := range fives {
		fives[i] = 500 + float64(i)
	}
	res = Benford(fives)
	assert.Equal(t, "high", res.Level)
	assert.True(t, res.Nonconforming())
}

func TestValidate_BenfordWarning(t *testing.T) {
	flat := make(models.Series, 5)
	for i := range flat {
		flat[i] = 700 + float64(i)
	}
	bundle := models.MetricsBundle{}
	for _, name := range models.ExtractedMetrics {
		bundle[name] = flat
	}

	r := NewValidator(DefaultThresholds()).Validate(bundle, models.FCFResultSet{models.LFCF: flat})
	require.NotNil(t, r.Benford)
	assert.Equal(t, 55, r.Benford.Total)

	found := false
	for _, w := range r.Warnings() {
		if strings.HasPrefix(w, "Statements: leading digits deviate") {
			found = true
		}
	}
	assert.True(t, found, r.Summary())

	small := NewValidator(DefaultThresholds()).Validate(models.MetricsBundle{models.MetricEBIT: {700, 710}}, nil)
	assert.Equal(t, "insufficient", small.Benford.Level)
}
