// Package report carries the per-run context: what was read, what went wrong,
// and how the results scored.
package report

import (
	"fmt"
	"strings"
	"time"

	"fcf_analysis/pkg/core/utils"
	"fcf_analysis/pkg/core/validate"

	"github.com/google/uuid"
)

// Run collects the findings of one company analysis. It is passed explicitly
// to every stage instead of living in package state.
//
// A nil *Run is valid and ignores everything.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Company   string    `json:"company"`
	StartedAt time.Time `json:"started_at"`

	// CopyErrors lists statement files that could not be read.
	CopyErrors []string `json:"copy_errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Errors     []string `json:"errors,omitempty"`

	Validation *validate.Report `json:"validation,omitempty"`
}

// NewRun starts a run for a company label.
func NewRun(company string) *Run {
	return &Run{
		ID:        uuid.New(),
		Company:   company,
		StartedAt: time.Now().UTC(),
	}
}

// Warnf records a warning.
func (r *Run) Warnf(format string, args ...any) {
	if r == nil {
		return
	}
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Errorf records an error. Errors do not stop the run by themselves.
func (r *Run) Errorf(format string, args ...any) {
	if r == nil {
		return
	}
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// CopyErrorf records a statement file that could not be read.
func (r *Run) CopyErrorf(format string, args ...any) {
	if r == nil {
		return
	}
	r.CopyErrors = append(r.CopyErrors, fmt.Sprintf(format, args...))
}

// AttachValidation stores the validation report for rendering and HasErrors.
func (r *Run) AttachValidation(v *validate.Report) {
	if r == nil || v == nil {
		return
	}
	r.Validation = v
}

// HasErrors reports whether the run or its validation recorded an error.
func (r *Run) HasErrors() bool {
	if r == nil {
		return false
	}
	if len(r.Errors) > 0 || len(r.CopyErrors) > 0 {
		return true
	}
	return r.Validation != nil && r.Validation.HasErrors()
}

// Markdown renders the run as a markdown document.
func (r *Run) Markdown() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Run report: %s\n\n", r.Company)
	fmt.Fprintf(&b, "- Run ID: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
	if r.Validation != nil {
		fmt.Fprintf(&b, "- Data quality score: **%.1f/100** (completeness %.1f, consistency %.1f)\n",
			r.Validation.Score, r.Validation.Completeness, r.Validation.Consistency)
	}
	b.WriteString("\n")

	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", title, len(items))
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
		b.WriteString("\n")
	}
	section("File errors", r.CopyErrors)
	section("Errors", r.Errors)
	section("Warnings", r.Warnings)
	if r.Validation != nil {
		section("Validation errors", r.Validation.Errors())
		section("Validation warnings", r.Validation.Warnings())
	}
	return b.String()
}

// HTML renders the markdown report to HTML.
func (r *Run) HTML() (string, error) {
	return utils.MarkdownToHTML(r.Markdown())
}
