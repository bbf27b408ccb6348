package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"Jan-02-2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"Jan-2006",
	"Jan 2006",
	"Jan-06",
}

// parseDate understands Excel serial dates and the header formats vendors emit.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		// Serial numbers between 1954 and 2119; plain years and amounts fall outside.
		if serial < 20000 || serial > 80000 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		return t, err == nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PeriodDates finds the header row of the period columns and returns its dates
// as YYYY-MM-DD, oldest first. Columns without a readable date are skipped.
// Returns nil when no row in the title block has at least two dates.
func PeriodDates(sheet *Sheet, layout Layout) []string {
	if sheet == nil {
		return nil
	}
	layout = layout.normalized()

	for r := 0; r < len(sheet.Rows) && r < headerScanRows; r++ {
		var dates []string
		for c := layout.DataStartColumn - 1; c < layout.MaxScanColumn; c++ {
			if t, ok := parseDate(sheet.Cell(r, c)); ok {
				dates = append(dates, t.Format("2006-01-02"))
			}
		}
		if len(dates) < 2 {
			continue
		}
		if layout.NewestFirst {
			for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
				dates[i], dates[j] = dates[j], dates[i]
			}
		}
		return dates
	}
	return nil
}
