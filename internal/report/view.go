// Package report turns a dataset column into the sorted views shown by the
// dashboard.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/indicator"
)

// Row is one organisational unit and its measurement.
type Row struct {
	Name  string
	Value float64
}

// View is the filtered, sorted two-column table for one selection.
type View struct {
	indicator.Selection
	NameColumn  string
	ValueColumn string
	Rows        []Row
}

// Options controls how cell values are read.
type Options struct {
	NameColumn string
	// DecimalSeparator is passed to dataset.ParseNumber; 0 auto-detects.
	DecimalSeparator rune
}

// Build resolves the selection and returns the view of that column: rows
// with an empty name or a missing or non-numeric value are dropped and the
// remaining rows are sorted by value, highest first. Ties keep file order.
func Build(t *dataset.Table, ix *indicator.Index, sel indicator.Selection, opt Options) (*View, error) {
	col, err := ix.Column(sel)
	if err != nil {
		return nil, err
	}
	return BuildColumn(t, sel, col, opt)
}

// BuildColumn builds the view of an already resolved column.
func BuildColumn(t *dataset.Table, sel indicator.Selection, column string, opt Options) (*View, error) {
	nameIdx, ok := t.ColumnIndex(opt.NameColumn)
	if !ok {
		return nil, fmt.Errorf("name column %q not found in %s", opt.NameColumn, t.Name)
	}
	valIdx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found in %s", column, t.Name)
	}
	v := &View{Selection: sel, NameColumn: opt.NameColumn, ValueColumn: column}
	for _, rec := range t.Rows {
		name := strings.TrimSpace(rec[nameIdx])
		if name == "" {
			continue
		}
		x, ok := dataset.ParseNumber(rec[valIdx], opt.DecimalSeparator)
		if !ok {
			continue
		}
		v.Rows = append(v.Rows, Row{Name: name, Value: x})
	}
	sort.SliceStable(v.Rows, func(i, j int) bool { return v.Rows[i].Value > v.Rows[j].Value })
	return v, nil
}

// Title is the subtitle shown above the table.
func (v *View) Title() string {
	return fmt.Sprintf("%s - %s (%s)", v.Indicator, v.Month, v.Structure)
}

// ChartTitle is the title drawn on the bar chart.
func (v *View) ChartTitle() string {
	return fmt.Sprintf("%s (%s) - %s", v.Indicator, v.Structure, v.Month)
}

// Names returns the unit names in view order.
func (v *View) Names() []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Name
	}
	return out
}

// Values returns the measurements in view order.
func (v *View) Values() []float64 {
	out := make([]float64, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Value
	}
	return out
}
