package statements

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fcf_analysis/pkg/core/excel"
	"fcf_analysis/pkg/core/utils"
)

// DatesMetadataFile is the sidecar written next to the FY and LTM folders.
const DatesMetadataFile = "dates_metadata.json"

// DatesMetadata records the period-end dates found in each statement.
type DatesMetadata struct {
	Company     string            `json:"company,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	FY          map[Kind][]string `json:"fy_dates"`
	LTM         map[Kind][]string `json:"ltm_dates"`
	Unit        string            `json:"unit,omitempty"`
}

// LatestFY returns the newest FY period date across statements.
func (m *DatesMetadata) LatestFY() (string, bool) {
	latest := ""
	for _, dates := range m.FY {
		if n := len(dates); n > 0 && dates[n-1] > latest {
			latest = dates[n-1]
		}
	}
	return latest, latest != ""
}

// BuildDatesMetadata reads the period header of every loaded sheet.
func BuildDatesMetadata(st *Statements, layout excel.Layout) DatesMetadata {
	meta := DatesMetadata{
		Company:     filepath.Base(st.Dir),
		GeneratedAt: time.Now().UTC(),
		FY:          map[Kind][]string{},
		LTM:         map[Kind][]string{},
		Unit:        st.Unit,
	}
	for kind, sheet := range st.FY {
		if dates := excel.PeriodDates(sheet, layout); len(dates) > 0 {
			meta.FY[kind] = dates
		}
	}
	for kind, sheet := range st.LTM {
		if dates := excel.PeriodDates(sheet, layout); len(dates) > 0 {
			meta.LTM[kind] = dates
		}
	}
	return meta
}

// WriteDatesMetadata writes the sidecar atomically.
func WriteDatesMetadata(dir string, meta DatesMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dates metadata: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dates_metadata-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write dates metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close dates metadata: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, DatesMetadataFile))
}

// ReadDatesMetadata loads the sidecar. Hand-edited or truncated files are repaired
// where possible.
func ReadDatesMetadata(dir string) (*DatesMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, DatesMetadataFile))
	if err != nil {
		return nil, err
	}
	var meta DatesMetadata
	if err := utils.DecodeLenient(data, &meta); err != nil {
		return nil, fmt.Errorf("read %s: %w", DatesMetadataFile, err)
	}
	return &meta, nil
}
