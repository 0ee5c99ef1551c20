// Package export serializes dashboard views to spreadsheets and CSV.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/indicator"
	"github.com/KaramelBytes/paludash/internal/report"
)

// ContentTypeXLSX is the MIME type of an Office Open XML workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// Filename names the export of a selection: "<indicator>_<month>_<structure>.xlsx".
func Filename(sel indicator.Selection) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", sel.Indicator, sel.Month, sel.Structure)
}

// LocalFilename is Filename made safe to create in the current directory:
// path separators and other characters invalid in file names become '-'.
func LocalFilename(sel indicator.Selection) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, Filename(sel))
}

// ViewXLSX writes the two columns of a view (unit name, value) to a new
// workbook with a header row, in view order.
func ViewXLSX(v *report.View) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &[]any{v.NameColumn, v.ValueColumn}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range v.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{r.Name, r.Value}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := styleHeader(f, sheet, 2); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "B", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf, nil
}

// ReadViewXLSX reads back a workbook written by ViewXLSX. The selection is
// not stored in the file and is left empty.
func ReadViewXLSX(r io.Reader) (*report.View, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("read header: expected two columns")
	}
	v := &report.View{NameColumn: rows[0][0], ValueColumn: rows[0][1]}
	for i, rec := range rows[1:] {
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected two cells, got %d", i+1, len(rec))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		v.Rows = append(v.Rows, report.Row{Name: rec[0], Value: x})
	}
	return v, nil
}

// IndicatorXLSX writes every (month, structure) column of one indicator next
// to the unit names: one row per unit, one column per entry in chronological
// month order. Missing or non-numeric cells are left blank.
func IndicatorXLSX(t *dataset.Table, ix *indicator.Index, ind string, opt report.Options) (*bytes.Buffer, error) {
	entries := orderedEntries(ix, ind)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: unknown indicator %q", indicator.ErrUnknownSelection, ind)
	}
	nameIdx, ok := t.ColumnIndex(opt.NameColumn)
	if !ok {
		return nil, fmt.Errorf("name column %q not found in %s", opt.NameColumn, t.Name)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := sheetName(ind)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := []any{opt.NameColumn}
	cols := make([]int, len(entries))
	for i, e := range entries {
		header = append(header, e.Month+" "+e.Structure)
		cols[i], _ = t.ColumnIndex(e.Column)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	out := 2
	for _, rec := range t.Rows {
		name := strings.TrimSpace(rec[nameIdx])
		if name == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, out)
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("write row %d: %w", out-1, err)
		}
		for i, ci := range cols {
			x, ok := dataset.ParseNumber(rec[ci], opt.DecimalSeparator)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+2, out)
			if err := f.SetCellFloat(sheet, cell, x, -1, 64); err != nil {
				return nil, fmt.Errorf("write row %d: %w", out-1, err)
			}
		}
		out++
	}
	if err := styleHeader(f, sheet, len(header)); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "A", "A", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf, nil
}

// orderedEntries returns an indicator's entries by month, then structure.
func orderedEntries(ix *indicator.Index, ind string) []indicator.Entry {
	var out []indicator.Entry
	for _, m := range ix.Months(ind) {
		for _, s := range ix.Structures(ind, m) {
			if col, ok := ix.Resolve(ind, m, s); ok {
				out = append(out, indicator.Entry{Month: m, Structure: s, Column: col})
			}
		}
	}
	return out
}

func styleHeader(f *excelize.File, sheet string, ncol int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(ncol, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// sheetName strips characters Excel forbids in sheet names and truncates.
func sheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, s)
	s = strings.Trim(strings.TrimSpace(s), "'")
	if s == "" {
		return "Sheet1"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}
