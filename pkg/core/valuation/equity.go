package valuation

import (
	"errors"
	"fmt"

	"fcf_analysis/pkg/models"
)

// DDMResult is a constant-growth dividend discount valuation.
type DDMResult struct {
	Envelope

	Dividend     float64 `json:"dividend"`
	NextDividend float64 `json:"next_dividend"`
	Growth       float64 `json:"growth"`
	CostOfEquity float64 `json:"cost_of_equity"`
}

// DDM applies the Gordon growth model to the current dividend per share,
// growing at the terminal rate.
//
// FORMULA: P = D_0 × (1 + g) / (k_e - g)
func DDM(a Assumptions, c models.CompanyContext) (*DDMResult, error) {
	if a.DividendPerShare <= 0 {
		return nil, &models.ValidationError{Field: "dividend_per_share", Reason: "required and positive"}
	}
	ke := a.EquityCost()
	next := a.DividendPerShare * (1 + a.TerminalGrowth)

	value, ok := GordonValue(next, ke, a.TerminalGrowth)
	if !ok {
		return nil, &models.ValidationError{
			Field:  "terminal_growth",
			Reason: fmt.Sprintf("cost of equity %.4f must exceed growth %.4f", ke, a.TerminalGrowth),
		}
	}
	if !finite(value) {
		return nil, &models.CalculationError{Metric: "DDM", Err: errors.New("non-finite result")}
	}

	assumptions := map[string]float64{
		"dividend_per_share": a.DividendPerShare,
		"terminal_growth":    a.TerminalGrowth,
		"cost_of_equity":     ke,
	}
	return &DDMResult{
		Envelope:     newEnvelope(KindDDM, c, value, assumptions),
		Dividend:     a.DividendPerShare,
		NextDividend: next,
		Growth:       a.TerminalGrowth,
		CostOfEquity: ke,
	}, nil
}

// PBResult is a justified price-to-book valuation.
type PBResult struct {
	Envelope

	BookValuePerShare float64 `json:"book_value_per_share"`
	ReturnOnEquity    float64 `json:"return_on_equity"`
	JustifiedPB       float64 `json:"justified_pb"`
	CostOfEquity      float64 `json:"cost_of_equity"`
}

// PB values equity at the justified multiple of book value.
//
// FORMULA: P/B = (ROE - g) / (k_e - g);  P = P/B × BVPS
func PB(a Assumptions, c models.CompanyContext) (*PBResult, error) {
	if a.BookValuePerShare <= 0 {
		return nil, &models.ValidationError{Field: "book_value_per_share", Reason: "required and positive"}
	}
	if a.ReturnOnEquity == 0 {
		return nil, &models.ValidationError{Field: "return_on_equity", Reason: "required"}
	}
	ke := a.EquityCost()
	if ke <= a.TerminalGrowth {
		return nil, &models.ValidationError{
			Field:  "terminal_growth",
			Reason: fmt.Sprintf("cost of equity %.4f must exceed growth %.4f", ke, a.TerminalGrowth),
		}
	}

	multiple := (a.ReturnOnEquity - a.TerminalGrowth) / (ke - a.TerminalGrowth)
	value := multiple * a.BookValuePerShare
	if !finite(multiple, value) {
		return nil, &models.CalculationError{Metric: "P/B", Err: errors.New("non-finite result")}
	}

	assumptions := map[string]float64{
		"book_value_per_share": a.BookValuePerShare,
		"return_on_equity":     a.ReturnOnEquity,
		"terminal_growth":      a.TerminalGrowth,
		"cost_of_equity":       ke,
	}
	return &PBResult{
		Envelope:          newEnvelope(KindPB, c, value, assumptions),
		BookValuePerShare: a.BookValuePerShare,
		ReturnOnEquity:    a.ReturnOnEquity,
		JustifiedPB:       multiple,
		CostOfEquity:      ke,
	}, nil
}
