// Package exceltest writes statement workbooks for tests.
package exceltest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves rows into the first sheet of a new .xlsx at path,
// creating parent directories as needed.
func WriteWorkbook(t testing.TB, path string, rows [][]any) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

// StatementRow builds a row with the label in column A, two blank metadata
// columns, and values from column D onwards.
func StatementRow(label string, values ...any) []any {
	row := []any{label, "", ""}
	return append(row, values...)
}
