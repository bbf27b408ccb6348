package models

// =============================================================================
// METRIC SERIES
// =============================================================================

// Series is one value per fiscal period, oldest period first.
type Series []float64

// Last returns the most recent value and false when the series is empty.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Clone returns an independent copy (nil stays nil).
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Zeros returns an all-zero series of length n.
func Zeros(n int) Series {
	if n <= 0 {
		return Series{}
	}
	return make(Series, n)
}

// Extracted statement line items.
const (
	MetricEBIT               = "EBIT"
	MetricNetIncome          = "Net Income"
	MetricTaxExpense         = "Tax Expense"
	MetricEBT                = "EBT"
	MetricCurrentAssets      = "Current Assets"
	MetricCurrentLiabilities = "Current Liabilities"
	MetricDA                 = "D&A"
	MetricOperatingCF        = "Operating Cash Flow"
	MetricCapEx              = "CapEx"
	MetricDebtIssued         = "Debt Issued"
	MetricDebtRepaid         = "Debt Repaid"
)

// Derived series.
const (
	MetricTaxRate              = "Tax Rate"
	MetricNetBorrowing         = "Net Borrowing"
	MetricWorkingCapitalChange = "Working Capital Change"
)

// ExtractedMetrics lists the statement line items in extraction order.
var ExtractedMetrics = []string{
	MetricEBIT,
	MetricNetIncome,
	MetricTaxExpense,
	MetricEBT,
	MetricCurrentAssets,
	MetricCurrentLiabilities,
	MetricDA,
	MetricOperatingCF,
	MetricCapEx,
	MetricDebtIssued,
	MetricDebtRepaid,
}

// MetricsBundle maps a metric name to its series.
type MetricsBundle map[string]Series

// Get returns the named series or nil.
func (b MetricsBundle) Get(name string) Series {
	if b == nil {
		return nil
	}
	return b[name]
}

// =============================================================================
// FCF RESULTS
// =============================================================================

// FCFType names one free cash flow definition.
type FCFType string

const (
	FCFF FCFType = "FCFF" // Free Cash Flow to Firm
	FCFE FCFType = "FCFE" // Free Cash Flow to Equity
	LFCF FCFType = "LFCF" // Levered Free Cash Flow
)

// FCFTypes is the canonical output order.
var FCFTypes = []FCFType{FCFF, FCFE, LFCF}

// FCFResultSet holds the computed series per FCF type.
type FCFResultSet map[FCFType]Series

// Periods returns the longest series length in the set.
func (r FCFResultSet) Periods() int {
	n := 0
	for _, s := range r {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}
