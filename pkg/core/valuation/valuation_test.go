package valuation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fcf_analysis/pkg/models"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// REAL APPLE DATA FOR TESTING
// =============================================================================
// Apple FY2024 levered FCF: 118,254 CFO - 9,447 CapEx, in millions.
// Shares outstanding: ~15,116 million.

var apple = models.CompanyContext{
	Ticker:            null.StringFrom("AAPL"),
	Name:              null.StringFrom("Apple Inc."),
	Currency:          null.StringFrom("USD"),
	SharesOutstanding: null.FloatFrom(15116),
	MarketPrice:       null.FloatFrom(227.52),
}

func flatAssumptions() Assumptions {
	a := DefaultAssumptions()
	a.GrowthRate = 0
	a.TerminalGrowth = 0
	a.DiscountRate = 0.10
	a.CostOfEquity = 0.10
	a.SharesOutstanding = 10
	return a
}

// =============================================================================
// COST OF CAPITAL
// =============================================================================

func TestCalculateWACC(t *testing.T) {
	res := CalculateWACC(WACCInput{
		UnleveredBeta:     1.0,
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.06,
		TaxRate:           0.25,
		DebtToEquityRatio: 0.5,
	})

	// β_L = 1 × (1 + 0.75 × 0.5) = 1.375
	assert.InDelta(t, 1.375, res.LeveredBeta, 1e-9)
	// r_e = 0.04 + 1.375 × 0.05 = 0.10875
	assert.InDelta(t, 0.10875, res.CostOfEquity, 1e-9)
	assert.InDelta(t, 0.045, res.CostOfDebt, 1e-9)
	assert.InDelta(t, 1.0/3, res.WeightDebt, 1e-9)
	// WACC = 0.10875 × 2/3 + 0.045 × 1/3 = 0.0875
	assert.InDelta(t, 0.0875, res.WACC, 1e-9)
}

func TestDiscounting(t *testing.T) {
	assert.InDelta(t, 100.0, PresentValue(121, 0.10, 2), 1e-9)
	assert.Equal(t, 0.0, PresentValue(100, 0.1, -1))
	assert.InDelta(t, 173.55, PresentValueOfCashFlows([]float64{100, 100}, 0.10), 0.01)

	tv, ok := GordonValue(105, 0.10, 0.05)
	require.True(t, ok)
	assert.InDelta(t, 2100, tv, 1e-9)

	_, ok = GordonValue(105, 0.05, 0.05)
	assert.False(t, ok)
}

// =============================================================================
// DCF
// =============================================================================

func TestDCF_PerpetuityIdentity(t *testing.T) {
	// With no growth, the DCF of a level flow equals FCF / r for any horizon.
	for _, years := range []int{1, 5, 10} {
		a := flatAssumptions()
		a.ProjectionYears = years

		res, err := DCF(models.Series{80, 90, 100}, models.LFCF, a, models.CompanyContext{})
		require.NoError(t, err)
		assert.InDelta(t, 1000, res.EnterpriseValue, 1e-6, "years=%d", years)
		assert.InDelta(t, 100, res.ValuePerShare, 1e-6)
		assert.Equal(t, 100.0, res.BaseFCF)
		assert.Len(t, res.Projected, years)
	}
}

func TestDCF_FCFFDeductsNetDebt(t *testing.T) {
	a := flatAssumptions()
	a.NetDebt = 200

	firm, err := DCF(models.Series{100}, models.FCFF, a, models.CompanyContext{})
	require.NoError(t, err)
	assert.InDelta(t, 800, firm.EquityValue, 1e-6)
	assert.InDelta(t, 80, firm.ValuePerShare, 1e-6)
	assert.Equal(t, 0.10, firm.DiscountRate)

	equity, err := DCF(models.Series{100}, models.FCFE, a, models.CompanyContext{})
	require.NoError(t, err)
	assert.InDelta(t, 1000, equity.EquityValue, 1e-6, "equity flows already net of debt")
}

func TestDCF_AppleEnvelope(t *testing.T) {
	a := DefaultAssumptions()
	a.DiscountRate = 0.09
	a.CostOfEquity = 0.09

	res, err := DCF(models.Series{99584, 108807}, models.LFCF, a, apple)
	require.NoError(t, err)
	t.Logf("Apple DCF value per share: %.2f (upside %.1f%%)", res.ValuePerShare, res.Upside.Float64)

	assert.Equal(t, KindDCF, res.Kind)
	assert.Equal(t, "Apple Inc. (AAPL)", res.Company)
	assert.Equal(t, "USD", res.Currency.String)
	assert.True(t, res.Upside.Valid)
	assert.InDelta(t, (res.ValuePerShare/227.52-1)*100, res.Upside.Float64, 1e-9)
	assert.Greater(t, res.PVTerminal, res.PVExplicit)
	assert.Equal(t, 0.09, res.Assumptions["discount_rate"])
}

func TestDCF_Errors(t *testing.T) {
	a := flatAssumptions()

	_, err := DCF(models.Series{}, models.FCFF, a, models.CompanyContext{})
	var ce *models.CalculationError
	assert.True(t, errors.As(err, &ce))

	noShares := a
	noShares.SharesOutstanding = 0
	_, err = DCF(models.Series{100}, models.FCFF, noShares, models.CompanyContext{})
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "shares_outstanding", ve.Field)

	_, err = DCF(models.Series{100}, models.FCFF, noShares, apple)
	assert.NoError(t, err, "share count from company context")

	highGrowth := a
	highGrowth.TerminalGrowth = 0.12
	_, err = DCF(models.Series{100}, models.FCFE, highGrowth, models.CompanyContext{})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "terminal_growth", ve.Field)
}

// =============================================================================
// EQUITY MODELS
// =============================================================================

func TestDDM(t *testing.T) {
	a := flatAssumptions()
	a.DividendPerShare = 1
	a.TerminalGrowth = 0.05

	res, err := DDM(a, models.CompanyContext{})
	require.NoError(t, err)
	// 1.05 / (0.10 - 0.05) = 21
	assert.InDelta(t, 21, res.ValuePerShare, 1e-9)
	assert.InDelta(t, 1.05, res.NextDividend, 1e-9)
	assert.False(t, res.Upside.Valid, "no market price")

	a.DividendPerShare = 0
	_, err = DDM(a, models.CompanyContext{})
	var ve *models.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestPB(t *testing.T) {
	a := flatAssumptions()
	a.BookValuePerShare = 10
	a.ReturnOnEquity = 0.15
	a.TerminalGrowth = 0.05

	res, err := PB(a, models.CompanyContext{})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.JustifiedPB, 1e-9)
	assert.InDelta(t, 20, res.ValuePerShare, 1e-9)

	a.TerminalGrowth = 0.2
	_, err = PB(a, models.CompanyContext{})
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "terminal_growth", ve.Field)
}

// =============================================================================
// ASSUMPTIONS AND SUITE
// =============================================================================

func TestParseAssumptions_Hjson(t *testing.T) {
	doc := []byte(`{
  # Apple, base case
  projection_years: 7
  growth_rate: 0.06
  shares_outstanding: 15116
  // equity discount rate set by hand
  cost_of_equity: 0.085
}`)
	a, err := ParseAssumptions(doc)
	require.NoError(t, err)

	assert.Equal(t, 7, a.ProjectionYears)
	assert.Equal(t, 0.06, a.GrowthRate)
	assert.Equal(t, 0.085, a.EquityCost())
	assert.Equal(t, DefaultAssumptions().TerminalGrowth, a.TerminalGrowth, "unset keys keep defaults")
}

func TestParseAssumptions_Invalid(t *testing.T) {
	_, err := ParseAssumptions([]byte(`{projection_years: 0}`))
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "projection_years", ve.Field)

	_, err = ParseAssumptions([]byte(`{tax_rate: 1.5}`))
	require.True(t, errors.As(err, &ve))

	_, err = LoadAssumptions(filepath.Join(t.TempDir(), "missing.hjson"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAssumptions_DerivedRates(t *testing.T) {
	a := DefaultAssumptions()
	a.DebtToEquity = 0

	// all-equity: WACC equals CAPM cost of equity, 0.043 + 1.0 × 0.05
	assert.InDelta(t, 0.093, a.WACC(), 1e-9)
	assert.InDelta(t, 0.093, a.EquityCost(), 1e-9)

	a.DiscountRate = 0.11
	assert.Equal(t, 0.11, a.WACC())
}

func TestRunAll(t *testing.T) {
	a := flatAssumptions()
	a.DividendPerShare = 1
	a.BookValuePerShare = 4
	a.ReturnOnEquity = 0 // P/B skipped

	results := models.FCFResultSet{
		models.FCFF: {90, 100},
		models.LFCF: {95, 110},
	}
	s, err := RunAll(results, a, apple)
	require.NoError(t, err)

	require.Len(t, s.DCF, 2)
	assert.Equal(t, models.FCFF, s.DCF[0].FCFType)
	assert.Equal(t, models.LFCF, s.DCF[1].FCFType)
	assert.NotNil(t, s.DDM)
	assert.Nil(t, s.PB)
	assert.Equal(t, []string{"P/B: return_on_equity required"}, s.Skipped)
	assert.Len(t, s.Envelopes(), 3)

	bad := a
	bad.ProjectionYears = 99
	_, err = RunAll(results, bad, apple)
	assert.Error(t, err)
}
