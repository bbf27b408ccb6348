package fcf

import (
	"fcf_analysis/pkg/core/validate"
	"fcf_analysis/pkg/models"
)

// Summary condenses one FCF series.
type Summary struct {
	Type    models.FCFType `json:"type"`
	Periods int            `json:"periods"`
	Latest  float64        `json:"latest"`
	Average float64        `json:"average"`
	// CAGR in percent between the first and latest period; 0 when undefined.
	CAGR float64 `json:"cagr"`
}

// Summarize returns one summary per non-empty series in FCFTypes order.
func Summarize(results models.FCFResultSet) []Summary {
	var out []Summary
	for _, kind := range models.FCFTypes {
		s := results[kind]
		if len(s) == 0 {
			continue
		}
		latest, _ := s.Last()
		sum := 0.0
		for _, v := range s {
			sum += v
		}
		out = append(out, Summary{
			Type:    kind,
			Periods: len(s),
			Latest:  latest,
			Average: sum / float64(len(s)),
			CAGR:    validate.CalculateCAGR(s[0], latest, len(s)-1),
		})
	}
	return out
}
