package fcf

import (
	"testing"

	"fcf_analysis/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestMergeLTM(t *testing.T) {
	tests := []struct {
		name   string
		annual models.Series
		ltm    models.Series
		want   models.Series
	}{
		{"replaces latest annual", models.Series{100, 110, 120}, models.Series{125}, models.Series{100, 110, 125}},
		{"uses last LTM element", models.Series{1, 2}, models.Series{7, 8, 9}, models.Series{1, 9}},
		{"empty LTM keeps annual", models.Series{1, 2, 3}, nil, models.Series{1, 2, 3}},
		{"both empty", nil, models.Series{}, models.Series{}},
		{"LTM only", nil, models.Series{42}, models.Series{42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeLTM(tt.annual, tt.ltm))
		})
	}
}

func TestMergeLTM_LengthProperty(t *testing.T) {
	annual := models.Series{5, 6, 7, 8, 9}
	for n := 1; n <= len(annual); n++ {
		for _, ltm := range []models.Series{{-1}, {3, 4}, {0}} {
			got := MergeLTM(annual[:n], ltm)
			last, _ := ltm.Last()

			assert.Len(t, got, n)
			assert.Equal(t, last, got[n-1])
			assert.Equal(t, annual[:n-1], got[:n-1])
		}
	}
	assert.Equal(t, models.Series{5, 6, 7, 8, 9}, annual, "input must not be modified")
}

func TestTaxRates(t *testing.T) {
	s := DefaultSettings()

	got := TaxRates(models.Series{20, 50, 80, 5}, models.Series{100, 200, 100, 1e-9}, 0, s)
	assert.InDeltaSlice(t, []float64{0.2, 0.25, 0.35, 0.25}, got, 1e-9)

	// losses: absolute values on both sides
	got = TaxRates(models.Series{-10}, models.Series{-40}, 0, s)
	assert.InDeltaSlice(t, []float64{0.25}, got, 1e-9)

	// missing EBT periods fall back
	got = TaxRates(models.Series{10, 10, 10}, models.Series{100}, 0, s)
	assert.InDeltaSlice(t, []float64{0.1, 0.25, 0.25}, got, 1e-9)

	// EBT without a tax entry is a zero-tax period
	got = TaxRates(models.Series{-20}, models.Series{100, 200}, 2, s)
	assert.InDeltaSlice(t, []float64{0.2, 0}, got, 1e-9)

	// nothing reported: fallback over the reference length
	assert.Equal(t, models.Series{0.25, 0.25, 0.25, 0.25}, TaxRates(nil, nil, 4, s))
	assert.Empty(t, TaxRates(nil, nil, 0, s))
}

func TestTaxRates_Bounded(t *testing.T) {
	s := DefaultSettings()
	taxes := []float64{0, 1, -3, 17.5, 1e6, -1e6, 0.001}
	ebts := []float64{1, -1, 0.5, 250, 3, -7, 1e9}

	for _, tax := range taxes {
		for _, ebt := range ebts {
			rate := TaxRates(models.Series{tax}, models.Series{ebt}, 0, s)[0]
			assert.GreaterOrEqual(t, rate, 0.0, "tax %v ebt %v", tax, ebt)
			assert.LessOrEqual(t, rate, 0.35, "tax %v ebt %v", tax, ebt)
		}
		assert.Equal(t, 0.25, TaxRates(models.Series{tax}, models.Series{1e-7}, 0, s)[0])
	}
}

func TestTaxRates_CustomSettings(t *testing.T) {
	s := Settings{TaxRateCap: 0.21, FallbackTaxRate: 0.1}
	got := TaxRates(models.Series{50, 1}, models.Series{100, 0}, 0, s)
	assert.InDeltaSlice(t, []float64{0.21, 0.1}, got, 1e-9)
}

func TestNetBorrowing(t *testing.T) {
	assert.Equal(t, models.Series{40, -20}, NetBorrowing(models.Series{50}, models.Series{-10, -20}, 0))
	assert.Equal(t, models.Series{5, 5, 5}, NetBorrowing(models.Series{5, 5, 5}, nil, 0))
	assert.Equal(t, models.Series{0, 0, 0}, NetBorrowing(nil, nil, 3))
	assert.Equal(t, models.Series{40, 0}, NetBorrowing(models.Series{50}, models.Series{-10}, 2))
	assert.Equal(t, models.Series{40, -20}, NetBorrowing(models.Series{50}, models.Series{-10, -20}, 1))
	assert.Empty(t, NetBorrowing(nil, nil, 0))
}

func TestWorkingCapitalChanges(t *testing.T) {
	ca := models.Series{500, 560, 600}
	cl := models.Series{300, 330}
	assert.Equal(t, models.Series{0, 30}, WorkingCapitalChanges(ca, cl))

	assert.Equal(t, models.Series{0}, WorkingCapitalChanges(models.Series{10}, models.Series{4}))
	assert.Empty(t, WorkingCapitalChanges(nil, cl))
}

func TestMergeSpecs(t *testing.T) {
	merged := MergeSpecs(DefaultMetricSpecs(), []MetricSpec{
		{Name: models.MetricCapEx, Aliases: []string{"Purchases of PP&E"}},
		{Name: "Dividends Paid", Statement: "Cash", Aliases: []string{"Common Dividends Paid"}},
	})

	assert.Len(t, merged, len(DefaultMetricSpecs())+1)
	for _, spec := range merged {
		if spec.Name == models.MetricCapEx {
			assert.Equal(t, []string{"Purchases of PP&E"}, spec.Aliases)
			assert.EqualValues(t, "Cash", spec.Statement)
		}
	}
	assert.Equal(t, "Capital Expenditure", DefaultMetricSpecs()[8].Aliases[0], "defaults untouched")
}
