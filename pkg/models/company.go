package models

import "github.com/guregu/null/v6"

// CompanyContext identifies the company behind a set of statements.
// Every field is best effort and may be absent.
type CompanyContext struct {
	Ticker            null.String `json:"ticker"`
	Name              null.String `json:"name"`
	Currency          null.String `json:"currency"`
	IsTASE            bool        `json:"is_tase"` // Tel Aviv Stock Exchange listing
	SharesOutstanding null.Float  `json:"shares_outstanding"`
	MarketPrice       null.Float  `json:"market_price"`
}

// Label returns the best display name available.
func (c CompanyContext) Label() string {
	switch {
	case c.Name.Valid && c.Ticker.Valid:
		return c.Name.String + " (" + c.Ticker.String + ")"
	case c.Name.Valid:
		return c.Name.String
	case c.Ticker.Valid:
		return c.Ticker.String
	}
	return "unknown company"
}
