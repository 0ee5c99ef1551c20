package dataset

import "errors"

// ErrEmptyDataset is returned when a caller needs rows and the file had none.
var ErrEmptyDataset = errors.New("dataset has no rows")

// Table is an in-memory dataset: one row per organisational unit, cells kept
// as the raw strings read from the file. A Table is read-only once loaded.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a table from a header and rows. Rows shorter than the
// header are padded with empty cells; longer rows are truncated.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: columns, index: make(map[string]int, len(columns))}
	for i, c := range columns {
		// first occurrence wins on duplicate headers
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	ncol := len(columns)
	t.Rows = make([][]string, 0, len(rows))
	for _, rec := range rows {
		row := make([]string, ncol)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[name]
	return i, ok
}

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := t.ColumnIndex(n); !ok {
			return false
		}
	}
	return true
}

// Cell returns the raw value at row r of the named column, or "" when the
// column is absent.
func (t *Table) Cell(r int, column string) string {
	i, ok := t.ColumnIndex(column)
	if !ok || r < 0 || r >= len(t.Rows) {
		return ""
	}
	return t.Rows[r][i]
}
