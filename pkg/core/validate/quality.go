package validate

import (
	"fmt"
	"math"
	"strings"

	"fcf_analysis/pkg/models"
)

// Severity grades an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding of the validation pass.
type Issue struct {
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject"` // metric or FCF type
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return i.Subject + ": " + i.Message
}

// Report accumulates issues and a 0-100 quality score.
type Report struct {
	Issues       []Issue `json:"issues"`
	Completeness float64 `json:"completeness"` // share of expected series present, 0-100
	Consistency  float64 `json:"consistency"`  // 100 minus issue penalties, 0-100
	Score        float64 `json:"score"`

	// Benford is the leading-digit profile of the extracted values; set by Validate only.
	Benford *BenfordResult `json:"benford,omitempty"`
}

func (r *Report) add(sev Severity, subject, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Subject: subject, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) filter(sev Severity) []string {
	var out []string
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i.String())
		}
	}
	return out
}

// Warnings returns warning messages in discovery order.
func (r *Report) Warnings() []string { return r.filter(SeverityWarning) }

// Errors returns error messages in discovery order.
func (r *Report) Errors() []string { return r.filter(SeverityError) }

// HasErrors reports whether any error-level issue was found.
func (r *Report) HasErrors() bool { return len(r.Errors()) > 0 }

// Summary renders the report as plain text.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data quality score: %.1f/100 (completeness %.1f, consistency %.1f)\n",
		r.Score, r.Completeness, r.Consistency)
	if errs := r.Errors(); len(errs) > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if warns := r.Warnings(); len(warns) > 0 {
		fmt.Fprintf(&b, "Warnings (%d):\n", len(warns))
		for _, w := range warns {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	return b.String()
}

// =============================================================================
// THRESHOLDS
// =============================================================================

// Thresholds configures the sanity checks.
type Thresholds struct {
	MaxMagnitude float64 `yaml:"max_magnitude"` // absolute value above which a figure is implausible
	MaxCV        float64 `yaml:"max_cv"`        // coefficient of variation limit
	OutlierPct   float64 `yaml:"outlier_pct"`   // period-over-period change limit, percent
}

// DefaultThresholds returns the standard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMagnitude: 1e12,
		MaxCV:        2,
		OutlierPct:   500,
	}
}

// optionalMetrics may legitimately be absent: no debt activity in a year is information.
var optionalMetrics = map[string]bool{
	models.MetricDebtIssued: true,
	models.MetricDebtRepaid: true,
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator runs the checks with a fixed set of thresholds.
type Validator struct {
	th Thresholds
}

// NewValidator builds a validator. Zero thresholds fall back to the defaults.
func NewValidator(th Thresholds) *Validator {
	d := DefaultThresholds()
	if th.MaxMagnitude <= 0 {
		th.MaxMagnitude = d.MaxMagnitude
	}
	if th.MaxCV <= 0 {
		th.MaxCV = d.MaxCV
	}
	if th.OutlierPct <= 0 {
		th.OutlierPct = d.OutlierPct
	}
	return &Validator{th: th}
}

// ValidateFCF checks each FCF series.
//
// Flags: empty result (error), magnitude above MaxMagnitude, uniformly negative values,
// coefficient of variation above MaxCV (warnings).
func (v *Validator) ValidateFCF(results models.FCFResultSet) *Report {
	r := &Report{}
	v.checkFCF(r, results)
	r.score(len(models.FCFTypes), countPresent(results))
	return r
}

// Validate checks the extracted metrics, then the FCF results as ValidateFCF does,
// and scores both together.
func (v *Validator) Validate(bundle models.MetricsBundle, results models.FCFResultSet) *Report {
	r := &Report{}
	present := 0
	for _, name := range models.ExtractedMetrics {
		series := bundle.Get(name)
		if len(series) > 0 {
			present++
		}
		v.checkMetric(r, name, series)
	}
	r.Issues = append(r.Issues, v.ValidateFCF(results).Issues...)

	benford := Benford(bundleValues(bundle))
	r.Benford = &benford
	if benford.Nonconforming() {
		r.add(SeverityWarning, "Statements", "leading digits deviate from Benford's law (MAD %.4f over %d values)", benford.MAD, benford.Total)
	}
	r.score(len(models.ExtractedMetrics)+len(models.FCFTypes), present+countPresent(results))
	return r
}

func (v *Validator) checkMetric(r *Report, name string, series models.Series) {
	if len(series) == 0 {
		if !optionalMetrics[name] {
			r.add(SeverityWarning, name, "metric not found in statements")
		}
		return
	}
	if allZero(series) {
		r.add(SeverityWarning, name, "all %d periods are zero", len(series))
		return
	}
	for i := 1; i < len(series); i++ {
		check := CheckForOutlier(name, series[i], series[i-1], v.th.OutlierPct)
		if check.IsOutlier {
			r.add(SeverityWarning, name, "period %d: %s", i+1, check.Reason)
		}
	}
}

func (v *Validator) checkFCF(r *Report, results models.FCFResultSet) {
	for _, t := range models.FCFTypes {
		series := results[t]
		name := string(t)
		if len(series) == 0 {
			r.add(SeverityError, name, "no periods could be calculated")
			continue
		}
		for i, x := range series {
			if math.Abs(x) > v.th.MaxMagnitude {
				r.add(SeverityWarning, name, "period %d value %.3g exceeds %.3g", i+1, x, v.th.MaxMagnitude)
			}
		}
		if allNegative(series) {
			r.add(SeverityWarning, name, "negative in every period")
		}
		if cv, ok := CoefficientOfVariation(series); ok && cv > v.th.MaxCV {
			r.add(SeverityWarning, name, "coefficient of variation %.2f above %.2f", cv, v.th.MaxCV)
		}
	}
}

// score sets completeness from expected/present and consistency from the issue count.
func (r *Report) score(expected, present int) {
	if expected > 0 {
		r.Completeness = round1(100 * float64(present) / float64(expected))
	}
	consistency := 100 - 25*float64(len(r.Errors())) - 5*float64(len(r.Warnings()))
	r.Consistency = math.Max(0, consistency)
	r.Score = round1((r.Completeness + r.Consistency) / 2)
}

func countPresent(results models.FCFResultSet) int {
	n := 0
	for _, t := range models.FCFTypes {
		if len(results[t]) > 0 {
			n++
		}
	}
	return n
}

func allZero(s models.Series) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

func allNegative(s models.Series) bool {
	for _, v := range s {
		if v >= 0 {
			return false
		}
	}
	return len(s) > 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
