package excel

import "strings"

// headerScanRows bounds how far down a sheet the title block is searched.
const headerScanRows = 10

// DetectScale looks at the title block of a sheet for a unit note such as
// "USD in millions" and returns the multiplier and unit name.
// Returns 1 and "" when no unit is stated.
func DetectScale(sheet *Sheet) (float64, string) {
	if sheet == nil {
		return 1, ""
	}

	var b strings.Builder
	for r := 0; r < len(sheet.Rows) && r < headerScanRows; r++ {
		for _, c := range sheet.Rows[r] {
			b.WriteString(strings.ToLower(c))
			b.WriteByte(' ')
		}
	}
	text := b.String()

	switch {
	case strings.Contains(text, "billion"):
		return 1e9, "billions"
	case strings.Contains(text, "million"):
		return 1e6, "millions"
	case strings.Contains(text, "thousand") || strings.Contains(text, "000s"):
		return 1e3, "thousands"
	}
	return 1, ""
}
