package valuation

import (
	"errors"
	"fmt"

	"fcf_analysis/pkg/models"
)

// DCFResult is a two-stage discounted cash flow valuation.
type DCFResult struct {
	Envelope

	FCFType         models.FCFType `json:"fcf_type"`
	BaseFCF         float64        `json:"base_fcf"`
	DiscountRate    float64        `json:"discount_rate"`
	Projected       []float64      `json:"projected"`
	PVExplicit      float64        `json:"pv_explicit"`
	TerminalValue   float64        `json:"terminal_value"`
	PVTerminal      float64        `json:"pv_terminal"`
	EnterpriseValue float64        `json:"enterprise_value"`
	EquityValue     float64        `json:"equity_value"`
}

// DCF values the company from the latest period of an FCF series.
//
// FORMULA: FCF_t = FCF_0 × (1 + g)^t                 t = 1..N
//
//	TV    = FCF_N × (1 + g_T) / (r - g_T)
//	Value = Σ PV(FCF_t) + PV(TV)
//
// FCFF is discounted at WACC and net debt is deducted; FCFE and levered FCF are
// equity flows discounted at the cost of equity.
func DCF(fcf models.Series, kind models.FCFType, a Assumptions, c models.CompanyContext) (*DCFResult, error) {
	base, ok := fcf.Last()
	if !ok {
		return nil, &models.CalculationError{Metric: string(kind), Err: errors.New("no FCF periods to value")}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	shares, err := a.shares(c)
	if err != nil {
		return nil, err
	}

	rate := a.EquityCost()
	if kind == models.FCFF {
		rate = a.WACC()
	}
	if rate <= a.TerminalGrowth {
		return nil, &models.ValidationError{
			Field:  "terminal_growth",
			Reason: fmt.Sprintf("discount rate %.4f must exceed terminal growth %.4f", rate, a.TerminalGrowth),
		}
	}

	projected := make([]float64, a.ProjectionYears)
	cf := base
	for i := range projected {
		cf *= 1 + a.GrowthRate
		projected[i] = cf
	}
	pvExplicit := PresentValueOfCashFlows(projected, rate)

	tv, _ := GordonValue(cf*(1+a.TerminalGrowth), rate, a.TerminalGrowth)
	pvTerminal := PresentValue(tv, rate, a.ProjectionYears)

	ev := pvExplicit + pvTerminal
	equity := ev
	if kind == models.FCFF {
		equity -= a.NetDebt
	}
	perShare := equity / shares

	if !finite(pvExplicit, tv, ev, perShare) {
		return nil, &models.CalculationError{Metric: "DCF " + string(kind), Err: errors.New("non-finite result")}
	}

	assumptions := a.Map()
	assumptions["discount_rate"] = rate
	return &DCFResult{
		Envelope:        newEnvelope(KindDCF, c, perShare, assumptions),
		FCFType:         kind,
		BaseFCF:         base,
		DiscountRate:    rate,
		Projected:       projected,
		PVExplicit:      pvExplicit,
		TerminalValue:   tv,
		PVTerminal:      pvTerminal,
		EnterpriseValue: ev,
		EquityValue:     equity,
	}, nil
}
