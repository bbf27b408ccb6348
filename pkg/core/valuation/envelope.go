package valuation

import (
	"time"

	"fcf_analysis/pkg/models"

	"github.com/guregu/null/v6"
)

// Kind names a valuation model.
type Kind string

const (
	KindDCF Kind = "DCF"
	KindDDM Kind = "DDM"
	KindPB  Kind = "P/B"
)

// Envelope carries what every valuation result reports.
type Envelope struct {
	Kind          Kind               `json:"kind"`
	Ticker        null.String        `json:"ticker"`
	Company       string             `json:"company"`
	Currency      null.String        `json:"currency"`
	ValuePerShare float64            `json:"value_per_share"`
	CurrentPrice  null.Float         `json:"current_price"`
	Upside        null.Float         `json:"upside_pct"` // vs current price, percent
	Assumptions   map[string]float64 `json:"assumptions"`
	ValuedAt      time.Time          `json:"valued_at"`
}

func newEnvelope(kind Kind, c models.CompanyContext, perShare float64, assumptions map[string]float64) Envelope {
	e := Envelope{
		Kind:          kind,
		Ticker:        c.Ticker,
		Company:       c.Label(),
		Currency:      c.Currency,
		ValuePerShare: perShare,
		CurrentPrice:  c.MarketPrice,
		Assumptions:   assumptions,
		ValuedAt:      time.Now().UTC(),
	}
	if c.MarketPrice.Valid && c.MarketPrice.Float64 > 0 {
		e.Upside = null.FloatFrom((perShare/c.MarketPrice.Float64 - 1) * 100)
	}
	return e
}
