package fcf

import (
	"testing"

	"fcf_analysis/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestLFCF(t *testing.T) {
	got := LFCF(models.Series{500, 550, 600}, models.Series{-50, -60, 0}, 1)
	assert.Equal(t, models.Series{450, 490, 600}, got)

	// CapEx sign does not matter
	got = LFCF(models.Series{500, 550}, models.Series{50, -60}, 1)
	assert.Equal(t, models.Series{450, 490}, got)
}

func TestFCFF(t *testing.T) {
	ebit := models.Series{100, 200}
	tax := models.Series{0.2, 0.25}
	da := models.Series{10, 20}
	dwc := models.Series{0, 30}
	capex := models.Series{-30, -40}

	// 100×0.8 + 10 − 0 − 30 = 60 ; 200×0.75 + 20 − 30 − 40 = 100
	assert.InDeltaSlice(t, []float64{60, 100}, FCFF(ebit, tax, da, dwc, capex, 1), 1e-9)
	assert.InDeltaSlice(t, []float64{60e6, 100e6}, FCFF(ebit, tax, da, dwc, capex, 1e6), 1e-3)
}

func TestFCFE(t *testing.T) {
	ni := models.Series{80, 150}
	da := models.Series{10, 20}
	dwc := models.Series{0, 30}
	capex := models.Series{-30, -40}
	nb := models.Series{40, -20}

	assert.InDeltaSlice(t, []float64{100, 80}, FCFE(ni, da, dwc, capex, nb, 1), 1e-9)
}

func TestFormulas_MinLength(t *testing.T) {
	long := models.Series{1, 2, 3, 4, 5}
	short := models.Series{1, 2}

	assert.Len(t, FCFF(long, long, short, long, long, 1), 2)
	assert.Len(t, FCFE(long, long, long, long, short, 1), 2)
	assert.Len(t, LFCF(short, long, 1), 2)

	assert.Empty(t, LFCF(nil, long, 1))
	assert.NotNil(t, LFCF(nil, long, 1))
}
