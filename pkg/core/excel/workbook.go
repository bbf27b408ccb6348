// Package excel reads financial statement workbooks and pulls labelled rows out of them.
package excel

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fcf_analysis/pkg/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet as raw cell text, row-major.
type Sheet struct {
	Name string
	Rows [][]string
}

// Cell returns the text at (row, col) or "" when out of range. Indexes are 0-based.
func (s *Sheet) Cell(row, col int) string {
	if s == nil || row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row]) {
		return ""
	}
	return s.Rows[row][col]
}

// IsEmpty reports whether the sheet has no non-blank cell.
func (s *Sheet) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, row := range s.Rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
	}
	return true
}

// Workbook is a loaded statement file.
type Workbook struct {
	Path   string
	Sheets []*Sheet
}

// First returns the first sheet that carries data, or nil.
func (w *Workbook) First() *Sheet {
	if w == nil {
		return nil
	}
	for _, s := range w.Sheets {
		if !s.IsEmpty() {
			return s
		}
	}
	return nil
}

// Open loads a statement workbook. Real spreadsheets go through excelize; vendor
// exports that are HTML tables saved with an .xls extension are parsed as HTML.
// A workbook without a single non-blank cell is an ExcelDataError.
func Open(path string) (*Workbook, error) {
	html, err := looksLikeHTML(path)
	if err != nil {
		return nil, &models.ExcelDataError{Path: path, Op: "open", Err: err}
	}

	var wb *Workbook
	if html {
		wb, err = openHTML(path)
	} else {
		wb, err = openSpreadsheet(path)
	}
	if err != nil {
		return nil, err
	}

	if wb.First() == nil {
		return nil, &models.ExcelDataError{Path: path, Op: "read", Err: fmt.Errorf("workbook has no data")}
	}
	return wb, nil
}

func openSpreadsheet(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &models.ExcelDataError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &models.ExcelDataError{Path: path, Op: "read sheet " + name, Err: err}
		}
		wb.Sheets = append(wb.Sheets, &Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func openHTML(path string) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.ExcelDataError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &models.ExcelDataError{Path: path, Op: "parse html", Err: err}
	}

	wb := &Workbook{Path: path}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		sheet := &Sheet{Name: fmt.Sprintf("%s_%d", base, i+1)}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			sheet.Rows = append(sheet.Rows, row)
		})
		wb.Sheets = append(wb.Sheets, sheet)
	})
	return wb, nil
}

// looksLikeHTML sniffs the first bytes of the file for markup.
func looksLikeHTML(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return false, fmt.Errorf("empty file")
	}
	head = bytes.TrimPrefix(head[:n], []byte("\xef\xbb\xbf"))
	head = bytes.ToLower(bytes.TrimSpace(head))
	return bytes.HasPrefix(head, []byte("<")), nil
}
