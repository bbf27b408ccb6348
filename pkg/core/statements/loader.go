// Package statements loads a company folder of FY and LTM statement workbooks.
package statements

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fcf_analysis/pkg/core/excel"
	"fcf_analysis/pkg/core/report"
	"fcf_analysis/pkg/models"

	"github.com/rs/zerolog"
)

// Kind is a statement type. Its value is the substring looked for in file names.
type Kind string

const (
	Income  Kind = "Income"
	Balance Kind = "Balance"
	Cash    Kind = "Cash"
)

// Kinds lists the statements in load order.
var Kinds = []Kind{Income, Balance, Cash}

// Folder names inside a company directory.
const (
	FYFolder  = "FY"
	LTMFolder = "LTM"
)

var workbookExts = map[string]bool{".xlsx": true, ".xlsm": true, ".xls": true}

// Set holds one sheet per statement kind; absent kinds are nil.
type Set map[Kind]*excel.Sheet

// Sheet returns the sheet for k or nil.
func (s Set) Sheet(k Kind) *excel.Sheet {
	if s == nil {
		return nil
	}
	return s[k]
}

// IsEmpty reports whether no statement in the set carries data.
func (s Set) IsEmpty() bool {
	for _, sheet := range s {
		if !sheet.IsEmpty() {
			return false
		}
	}
	return true
}

// Statements is a loaded company folder.
type Statements struct {
	Dir   string
	FY    Set
	LTM   Set
	Files map[string]string // "FY/Income" -> path
	Unit  string            // unit note found in the FY income statement, e.g. "millions"
}

// IsEmpty reports whether neither FY nor LTM statements carry data.
func (s *Statements) IsEmpty() bool {
	return s == nil || (s.FY.IsEmpty() && s.LTM.IsEmpty())
}

// Loader reads company folders laid out as <dir>/FY/*.xlsx and <dir>/LTM/*.xlsx.
type Loader struct {
	layout       excel.Layout
	logger       zerolog.Logger
	writeSidecar bool
}

// NewLoader builds a loader. When writeSidecar is set, Load records the period
// dates it found in dates_metadata.json inside the company folder.
func NewLoader(layout excel.Layout, logger zerolog.Logger, writeSidecar bool) *Loader {
	return &Loader{
		layout:       layout,
		logger:       logger.With().Str("component", "statements").Logger(),
		writeSidecar: writeSidecar,
	}
}

// Load reads the FY and LTM statements of a company folder.
//
// The folder and its FY subfolder must exist and at least one FY statement must be
// present; an unreadable or empty workbook is an ExcelDataError. A missing LTM
// folder or a single missing statement file is only a warning.
func (l *Loader) Load(dir string, run *report.Run) (*Statements, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &models.ExcelDataError{Path: dir, Op: "open company folder", Err: err}
	}
	if !info.IsDir() {
		return nil, &models.ExcelDataError{Path: dir, Op: "open company folder", Err: errors.New("not a directory")}
	}

	st := &Statements{Dir: dir, FY: Set{}, LTM: Set{}, Files: map[string]string{}}

	fyDir, ok := subfolder(dir, FYFolder)
	if !ok {
		return nil, &models.ExcelDataError{Path: filepath.Join(dir, FYFolder), Op: "find FY folder", Err: os.ErrNotExist}
	}
	if err := l.loadSet(fyDir, FYFolder, st.FY, st.Files, run); err != nil {
		return nil, err
	}
	if len(st.FY) == 0 {
		return nil, &models.ExcelDataError{Path: fyDir, Op: "find statements", Err: errors.New("no Income, Balance or Cash workbook")}
	}

	if ltmDir, ok := subfolder(dir, LTMFolder); ok {
		if err := l.loadSet(ltmDir, LTMFolder, st.LTM, st.Files, run); err != nil {
			return nil, err
		}
	} else {
		l.logger.Warn().Str("dir", dir).Msg("LTM folder missing, using annual figures only")
		run.Warnf("LTM folder missing in %s; latest period uses the annual figure", dir)
	}

	if _, unit := excel.DetectScale(st.FY.Sheet(Income)); unit != "" {
		st.Unit = unit
	}

	if l.writeSidecar {
		meta := BuildDatesMetadata(st, l.layout)
		if err := WriteDatesMetadata(dir, meta); err != nil {
			l.logger.Warn().Err(err).Msg("dates metadata not written")
			run.Warnf("could not write %s: %v", DatesMetadataFile, err)
		}
	}

	l.logger.Info().
		Str("dir", dir).
		Int("fy_statements", len(st.FY)).
		Int("ltm_statements", len(st.LTM)).
		Str("unit", st.Unit).
		Msg("statements loaded")
	return st, nil
}

func (l *Loader) loadSet(folder, label string, set Set, files map[string]string, run *report.Run) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return &models.ExcelDataError{Path: folder, Op: "list folder", Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, kind := range Kinds {
		name, ok := pickFile(names, kind)
		if !ok {
			l.logger.Warn().Str("folder", folder).Str("statement", string(kind)).Msg("statement file not found")
			run.Warnf("%s %s statement not found in %s", label, kind, folder)
			continue
		}

		path := filepath.Join(folder, name)
		wb, err := excel.Open(path)
		if err != nil {
			run.CopyErrorf("%s: %v", path, err)
			return err
		}
		set[kind] = wb.First()
		files[fmt.Sprintf("%s/%s", label, kind)] = path
	}
	return nil
}

// pickFile returns the first workbook whose name contains the kind, ignoring case
// and Office lock files.
func pickFile(names []string, kind Kind) (string, bool) {
	needle := strings.ToLower(string(kind))
	for _, n := range names {
		if strings.HasPrefix(n, "~$") || !workbookExts[strings.ToLower(filepath.Ext(n))] {
			continue
		}
		if strings.Contains(strings.ToLower(n), needle) {
			return n, true
		}
	}
	return "", false
}

// subfolder finds name inside dir, ignoring case.
func subfolder(dir, name string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}
