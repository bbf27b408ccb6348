package valuation

import (
	"errors"
	"fmt"

	"fcf_analysis/pkg/models"
)

// Suite gathers every model that could be run for a company.
type Suite struct {
	DCF     []*DCFResult `json:"dcf,omitempty"`
	DDM     *DDMResult   `json:"ddm,omitempty"`
	PB      *PBResult    `json:"pb,omitempty"`
	Skipped []string     `json:"skipped,omitempty"`
}

// Envelopes lists the common part of every result, DCF first.
func (s Suite) Envelopes() []Envelope {
	var out []Envelope
	for _, d := range s.DCF {
		out = append(out, d.Envelope)
	}
	if s.DDM != nil {
		out = append(out, s.DDM.Envelope)
	}
	if s.PB != nil {
		out = append(out, s.PB.Envelope)
	}
	return out
}

// RunAll values every FCF type with a DCF and adds DDM and P/B when their inputs
// are present. Models that cannot run are listed in Skipped. Only a failure of the
// assumptions themselves is returned as an error.
func RunAll(results models.FCFResultSet, a Assumptions, c models.CompanyContext) (Suite, error) {
	if err := a.Validate(); err != nil {
		return Suite{}, err
	}

	var s Suite
	for _, kind := range models.FCFTypes {
		if len(results[kind]) == 0 {
			continue
		}
		res, err := DCF(results[kind], kind, a, c)
		if err != nil {
			s.Skipped = append(s.Skipped, fmt.Sprintf("DCF %s: %v", kind, err))
			continue
		}
		s.DCF = append(s.DCF, res)
	}

	if a.DividendPerShare > 0 {
		if res, err := DDM(a, c); err == nil {
			s.DDM = res
		} else {
			s.Skipped = append(s.Skipped, skipReason(KindDDM, err))
		}
	}
	if a.BookValuePerShare > 0 {
		if res, err := PB(a, c); err == nil {
			s.PB = res
		} else {
			s.Skipped = append(s.Skipped, skipReason(KindPB, err))
		}
	}
	return s, nil
}

func skipReason(kind Kind, err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("%s: %s %s", kind, ve.Field, ve.Reason)
	}
	return fmt.Sprintf("%s: %v", kind, err)
}
