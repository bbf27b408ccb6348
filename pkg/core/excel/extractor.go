package excel

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// =============================================================================
// LAYOUT
// =============================================================================

// Layout describes where labels and period data live in a statement sheet.
// Column numbers are 1-based, as they appear in a spreadsheet.
type Layout struct {
	LabelColumns    int  `yaml:"label_columns"`     // labels sit in one of the first N columns
	DataStartColumn int  `yaml:"data_start_column"` // first period column
	MaxScanColumn   int  `yaml:"max_scan_column"`   // last period column scanned
	LTMColumn       int  `yaml:"ltm_column"`        // single trailing-twelve-months value
	NewestFirst     bool `yaml:"newest_first"`      // period columns run newest to oldest
}

// DefaultLayout matches the vendor exports the toolkit was built around.
func DefaultLayout() Layout {
	return Layout{
		LabelColumns:    3,
		DataStartColumn: 4,
		MaxScanColumn:   16,
		LTMColumn:       15,
	}
}

func (l Layout) normalized() Layout {
	d := DefaultLayout()
	if l.LabelColumns <= 0 {
		l.LabelColumns = d.LabelColumns
	}
	if l.DataStartColumn <= 0 {
		l.DataStartColumn = d.DataStartColumn
	}
	if l.MaxScanColumn < l.DataStartColumn {
		l.MaxScanColumn = l.DataStartColumn + d.MaxScanColumn - d.DataStartColumn
	}
	if l.LTMColumn <= 0 {
		l.LTMColumn = d.LTMColumn
	}
	return l
}

// =============================================================================
// ROW MATCHING
// =============================================================================

// RowMatch is the outcome of FindRow.
type RowMatch struct {
	Row            int     // 0-based row index (header row for column matches)
	Column         int     // 0-based column index of the matching label cell
	Label          string  // matched cell text
	Target         string  // alias that produced the match
	Score          float64 // 1 for exact matches
	Exact          bool
	ColumnOriented bool
}

// normalizeLabel lower-cases, collapses whitespace and drops a trailing colon.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return strings.TrimSpace(strings.TrimSuffix(s, ":"))
}

// MatchScore rates a partial label match as the overlap ratio len(target)/len(label).
// It is 0 when the label does not contain the target.
func MatchScore(label, target string) float64 {
	l, t := normalizeLabel(label), normalizeLabel(target)
	if l == "" || t == "" || !strings.Contains(l, t) {
		return 0
	}
	return float64(len(t)) / float64(len(l))
}

// FindRow locates the row carrying target.
//
// Phase 1: exact, case-insensitive match on one of the label columns; the first hit wins.
// Phase 2: partial match scored with MatchScore; the highest score wins and ties keep
// the earlier row.
// Phase 3: column-oriented sheets; a header-row cell equal to target.
func FindRow(sheet *Sheet, target string, layout Layout) (RowMatch, bool) {
	matches := FindRows(sheet, []string{target}, layout)
	if len(matches) == 0 {
		return RowMatch{}, false
	}
	return matches[0], true
}

// FindRows runs the matching phases across every alias: all exact matches come
// before any partial match, and partial matches before column matches. Within the
// partial phase candidates are ordered by score; ties keep alias order.
// Each alias contributes at most one match, from the first phase it hits, and
// records itself in Target.
func FindRows(sheet *Sheet, targets []string, layout Layout) []RowMatch {
	if sheet == nil {
		return nil
	}
	layout = layout.normalized()

	var exact, partial, column []RowMatch
	for _, target := range targets {
		if normalizeLabel(target) == "" {
			continue
		}
		if m, ok := findExact(sheet, target, layout); ok {
			exact = append(exact, m)
		} else if m, ok := findPartial(sheet, target, layout); ok {
			partial = append(partial, m)
		} else if m, ok := findColumn(sheet, target); ok {
			column = append(column, m)
		}
	}
	sort.SliceStable(partial, func(i, j int) bool { return partial[i].Score > partial[j].Score })

	out := append(exact, partial...)
	return append(out, column...)
}

func findExact(sheet *Sheet, target string, layout Layout) (RowMatch, bool) {
	want := normalizeLabel(target)
	for r, row := range sheet.Rows {
		for c := 0; c < layout.LabelColumns && c < len(row); c++ {
			if normalizeLabel(row[c]) == want {
				return RowMatch{Row: r, Column: c, Label: row[c], Target: target, Score: 1, Exact: true}, true
			}
		}
	}
	return RowMatch{}, false
}

func findPartial(sheet *Sheet, target string, layout Layout) (RowMatch, bool) {
	best := RowMatch{}
	found := false
	for r, row := range sheet.Rows {
		for c := 0; c < layout.LabelColumns && c < len(row); c++ {
			score := MatchScore(row[c], target)
			if score > best.Score {
				best = RowMatch{Row: r, Column: c, Label: row[c], Target: target, Score: score}
				found = true
			}
		}
	}
	return best, found
}

func findColumn(sheet *Sheet, target string) (RowMatch, bool) {
	if len(sheet.Rows) == 0 {
		return RowMatch{}, false
	}
	want := normalizeLabel(target)
	for c, cell := range sheet.Rows[0] {
		if normalizeLabel(cell) == want {
			return RowMatch{Row: 0, Column: c, Label: cell, Target: target, Score: 1, Exact: true, ColumnOriented: true}, true
		}
	}
	return RowMatch{}, false
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor pulls numeric period series out of statement sheets.
type Extractor struct {
	layout Layout
	logger zerolog.Logger
}

// NewExtractor builds an extractor for the given layout.
func NewExtractor(layout Layout, logger zerolog.Logger) *Extractor {
	return &Extractor{
		layout: layout.normalized(),
		logger: logger.With().Str("component", "excel").Logger(),
	}
}

// Layout returns the effective layout.
func (e *Extractor) Layout() Layout { return e.layout }

// Extract returns the period values of the best label alias found in the sheet
// (exact matches on any alias before partial ones),
// oldest period first, with unreported trailing periods removed.
// A miss is logged and returns an empty slice; it is never an error.
func (e *Extractor) Extract(sheet *Sheet, labels ...string) []float64 {
	if sheet == nil {
		e.logger.Debug().Strs("labels", labels).Msg("no sheet to extract from")
		return []float64{}
	}
	for _, match := range FindRows(sheet, labels, e.layout) {
		values := e.values(sheet, match)
		if len(values) == 0 {
			continue
		}
		e.logger.Debug().
			Str("sheet", sheet.Name).
			Str("target", match.Target).
			Str("matched", match.Label).
			Float64("score", match.Score).
			Int("periods", len(values)).
			Msg("row extracted")
		return values
	}
	e.logger.Warn().Str("sheet", sheet.Name).Strs("labels", labels).Msg("metric row not found")
	return []float64{}
}

// ExtractLTM returns the trailing-twelve-months figure for a label. The dedicated LTM
// column is preferred; when it is blank the regular row extraction is used.
func (e *Extractor) ExtractLTM(sheet *Sheet, labels ...string) []float64 {
	if sheet == nil {
		return []float64{}
	}
	for _, match := range FindRows(sheet, labels, e.layout) {
		if match.ColumnOriented {
			continue
		}
		if v := ParseNumber(sheet.Cell(match.Row, e.layout.LTMColumn-1)); v != 0 {
			return []float64{v}
		}
		break
	}
	return e.Extract(sheet, labels...)
}

func (e *Extractor) values(sheet *Sheet, match RowMatch) []float64 {
	var cells []string
	if match.ColumnOriented {
		for r := match.Row + 1; r < len(sheet.Rows); r++ {
			cells = append(cells, sheet.Cell(r, match.Column))
		}
	} else {
		row := sheet.Rows[match.Row]
		start := e.layout.DataStartColumn - 1
		end := e.layout.MaxScanColumn
		if end > len(row) {
			end = len(row)
		}
		if start < end {
			cells = row[start:end]
		}
	}

	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		values = append(values, ParseNumber(c))
	}
	if e.layout.NewestFirst {
		reverse(values)
	}
	return trimTrailingZeros(values)
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}
