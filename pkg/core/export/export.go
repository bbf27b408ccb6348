// Package export writes FCF results as CSV and as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"fcf_analysis/pkg/core/validate"
	"fcf_analysis/pkg/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Places is the rounding applied to exported amounts.
const Places = 2

// Data is everything one export covers.
type Data struct {
	Company    string
	Dates      []string // period-end dates, oldest first; may be shorter than the series
	FCF        models.FCFResultSet
	Metrics    models.MetricsBundle
	Validation *validate.Report
}

func (d Data) periodLabel(i int) string {
	if i < len(d.Dates) {
		return d.Dates[i]
	}
	return "P" + strconv.Itoa(i+1)
}

// Round rounds half away from zero to Places decimals.
func Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(Places)
}

// =============================================================================
// CSV
// =============================================================================

// fcfRow is one period of the CSV export. Missing values are left blank.
type fcfRow struct {
	Period string `csv:"period"`
	FCFF   string `csv:"fcff"`
	FCFE   string `csv:"fcfe"`
	LFCF   string `csv:"lfcf"`
}

func cell(s models.Series, i int) string {
	if i >= len(s) {
		return ""
	}
	return Round(s[i]).StringFixed(Places)
}

// fcfRows flattens the result set, one row per period.
func fcfRows(d Data) []*fcfRow {
	n := d.FCF.Periods()
	rows := make([]*fcfRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &fcfRow{
			Period: d.periodLabel(i),
			FCFF:   cell(d.FCF[models.FCFF], i),
			FCFE:   cell(d.FCF[models.FCFE], i),
			LFCF:   cell(d.FCF[models.LFCF], i),
		})
	}
	return rows
}

// WriteCSV writes the FCF table with a header row.
func WriteCSV(w io.Writer, d Data) error {
	rows := fcfRows(d)
	if len(rows) == 0 {
		// gocsv writes nothing for an empty slice; keep the header.
		_, err := io.WriteString(w, "period,fcff,fcfe,lfcf\n")
		return err
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the FCF table to path.
func WriteCSVFile(path string, d Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Sheet names of the workbook export.
const (
	SheetFCF        = "FCF"
	SheetMetrics    = "Metrics"
	SheetValidation = "Validation"
)

var derivedMetrics = []string{models.MetricTaxRate, models.MetricNetBorrowing, models.MetricWorkingCapitalChange}

// WriteWorkbook writes FCF, Metrics and Validation sheets to an .xlsx file.
func WriteWorkbook(path string, d Data) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetFCF); err != nil {
		return err
	}
	for _, name := range []string{SheetMetrics, SheetValidation} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeRows(f, SheetFCF, fcfSheet(d)); err != nil {
		return err
	}
	if err := writeRows(f, SheetMetrics, metricsSheet(d)); err != nil {
		return err
	}
	if err := writeRows(f, SheetValidation, validationSheet(d)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, ref, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func seriesRow(label string, s models.Series, n int) []any {
	row := []any{label}
	for i := 0; i < n; i++ {
		if i < len(s) {
			row = append(row, Round(s[i]).InexactFloat64())
		} else {
			row = append(row, "")
		}
	}
	return row
}

func header(d Data, first string, n int) []any {
	row := []any{first}
	for i := 0; i < n; i++ {
		row = append(row, d.periodLabel(i))
	}
	return row
}

func fcfSheet(d Data) [][]any {
	n := d.FCF.Periods()
	rows := [][]any{{d.Company}, header(d, "FCF type", n)}
	for _, kind := range models.FCFTypes {
		if s, ok := d.FCF[kind]; ok {
			rows = append(rows, seriesRow(string(kind), s, n))
		}
	}
	return rows
}

func metricsSheet(d Data) [][]any {
	n := 0
	for _, s := range d.Metrics {
		n = max(n, len(s))
	}
	rows := [][]any{header(d, "Metric", n)}
	for _, name := range append(append([]string{}, models.ExtractedMetrics...), derivedMetrics...) {
		s, ok := d.Metrics[name]
		if !ok {
			continue
		}
		rows = append(rows, seriesRow(name, s, n))
	}
	return rows
}

func validationSheet(d Data) [][]any {
	if d.Validation == nil {
		return [][]any{{"No validation run"}}
	}
	v := d.Validation
	rows := [][]any{
		{"Score", Round(v.Score).InexactFloat64()},
		{"Completeness", Round(v.Completeness).InexactFloat64()},
		{"Consistency", Round(v.Consistency).InexactFloat64()},
		{""},
		{"Severity", "Subject", "Message"},
	}
	for _, issue := range v.Issues {
		rows = append(rows, []any{string(issue.Severity), issue.Subject, issue.Message})
	}
	return rows
}
