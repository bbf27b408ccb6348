package excel

import (
	"math"
	"strconv"
	"strings"
)

// currencyReplacer drops symbols and separators that vendors leave in numeric cells.
var currencyReplacer = strings.NewReplacer(
	",", "",
	"$", "",
	"€", "",
	"£", "",
	"₪", "",
	"¥", "",
	" ", "",
	" ", "",
	"\t", "",
)

// ParseNumber converts a statement cell to a number.
//
// Rules:
//   - blank, "None", "nan", "n/a" and dash placeholders are 0
//   - thousands separators and currency symbols are stripped
//   - "(123)" and "123-" are negative
//   - anything still unparseable is 0
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "none", "nan", "n/a", "na", "nm", "-", "--", "—", "–":
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = currencyReplacer.Replace(s)
	if strings.HasSuffix(s, "-") && len(s) > 1 {
		negative = !negative
		s = s[:len(s)-1]
	}
	// "(1,234)" may hide the sign inside the currency symbol: "$(1,234)"
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = !negative
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if negative {
		return -v
	}
	return v
}

// trimTrailingZeros drops zero cells at the end of a row. Those are periods that
// have not been reported yet.
func trimTrailingZeros(values []float64) []float64 {
	end := len(values)
	for end > 0 && values[end-1] == 0 {
		end--
	}
	return values[:end]
}
