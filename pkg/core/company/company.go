// Package company infers who a statements folder belongs to.
package company

import (
	"path/filepath"
	"regexp"
	"strings"

	"fcf_analysis/pkg/core/market"
	"fcf_analysis/pkg/models"

	"github.com/guregu/null/v6"
)

var (
	// "Apple Inc (AAPL)" or "Teva [TEVA.TA]"
	parenTicker = regexp.MustCompile(`^(.*?)\s*[\(\[]([A-Za-z0-9.\-]{1,12})[\)\]]\s*$`)
	tickerToken = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}(\.[A-Z]{1,3})?$`)
)

// FromFolder derives the company context from a folder path such as
// "data/AAPL", "data/Apple Inc (AAPL)", "data/TEVA.TA" or "data/TASE/ESLT Elbit".
// Price and share count stay null.
func FromFolder(dir string) models.CompanyContext {
	clean := filepath.Clean(dir)
	base := filepath.Base(clean)

	var ctx models.CompanyContext
	ticker, name := splitFolderName(base)
	if ticker != "" {
		ctx.Ticker = null.StringFrom(ticker)
	}
	if name != "" {
		ctx.Name = null.StringFrom(name)
	}

	ctx.IsTASE = strings.HasSuffix(ticker, ".TA") || hasPathElement(filepath.Dir(clean), "TASE")
	if ctx.IsTASE {
		ctx.Currency = null.StringFrom("ILS")
	} else {
		ctx.Currency = null.StringFrom("USD")
	}
	return ctx
}

// YahooSymbol returns the ticker in the form the quote service expects.
// TASE listings carry a ".TA" suffix.
func YahooSymbol(c models.CompanyContext) string {
	if !c.Ticker.Valid {
		return ""
	}
	t := c.Ticker.String
	if c.IsTASE && !strings.HasSuffix(t, ".TA") {
		t += ".TA"
	}
	return t
}

// Enrich fills price, currency and name from a market quote. Existing values are
// only replaced by valid quote fields.
func Enrich(c models.CompanyContext, q market.Quote) models.CompanyContext {
	if q.HasPrice() {
		c.MarketPrice = q.Price
	}
	if q.Currency.Valid {
		c.Currency = q.Currency
	}
	if !c.Name.Valid && q.Name.Valid {
		c.Name = q.Name
	}
	return c
}

func splitFolderName(base string) (ticker, name string) {
	base = strings.TrimSpace(base)
	if m := parenTicker.FindStringSubmatch(base); m != nil {
		return strings.ToUpper(m[2]), strings.TrimSpace(m[1])
	}

	fields := strings.Fields(base)
	if len(fields) == 0 {
		return "", ""
	}
	if tickerToken.MatchString(fields[0]) {
		rest := strings.Join(fields[1:], " ")
		rest = strings.TrimSpace(strings.TrimLeft(rest, "-_ "))
		return fields[0], rest
	}
	return "", base
}

func hasPathElement(dir, name string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if strings.EqualFold(part, name) {
			return true
		}
	}
	return false
}
