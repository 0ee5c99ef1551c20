package indicator

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoIndicators is returned when no column header matched the pattern.
	ErrNoIndicators = errors.New("no indicator recognized in the dataset columns")
	// ErrUnknownSelection is returned when a selection resolves to no column.
	ErrUnknownSelection = errors.New("selection does not match any column")
)

// coordinateColumns are never measurements even when not listed as metadata.
var coordinateColumns = []string{"latitude", "longitude"}

// Entry ties one (month, structure) pair of an indicator to its column.
type Entry struct {
	Month     string
	Structure string
	Column    string
}

// Selection is the three dropdown choices of the analysis view.
type Selection struct {
	Indicator string
	Month     string
	Structure string
}

// Index maps indicator names to their entries in column order.
type Index struct {
	entries map[string][]Entry
	// Unmatched lists non-metadata columns whose name did not parse.
	Unmatched []string
}

// Build parses every column that is not a metadata or coordinate column.
// Unparseable names are left out of the index and recorded in Unmatched.
func Build(columns []string, meta []string) *Index {
	skip := make(map[string]struct{}, len(meta)+len(coordinateColumns))
	for _, m := range meta {
		skip[m] = struct{}{}
	}
	for _, m := range coordinateColumns {
		skip[m] = struct{}{}
	}
	ix := &Index{entries: map[string][]Entry{}}
	for _, col := range columns {
		if _, ok := skip[col]; ok {
			continue
		}
		h, ok := ParseHeader(col)
		if !ok {
			ix.Unmatched = append(ix.Unmatched, col)
			continue
		}
		ix.entries[h.Indicator] = append(ix.entries[h.Indicator], Entry{Month: h.Month, Structure: h.Structure, Column: col})
	}
	return ix
}

// Len returns the number of distinct indicators.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Indicators returns the indicator names in sorted order.
func (ix *Index) Indicators() []string {
	if ix == nil {
		return nil
	}
	out := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entries returns the entries of an indicator in column order.
func (ix *Index) Entries(indicator string) []Entry {
	if ix == nil {
		return nil
	}
	return ix.entries[indicator]
}

// Months returns the distinct month labels of an indicator, oldest first.
func (ix *Index) Months(indicator string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range ix.Entries(indicator) {
		if _, ok := seen[e.Month]; ok {
			continue
		}
		seen[e.Month] = struct{}{}
		out = append(out, e.Month)
	}
	sort.SliceStable(out, func(i, j int) bool { return lessMonth(out[i], out[j]) })
	return out
}

// Structures returns the distinct structures reported for an indicator in a
// given month. An empty month returns the structures across all months.
func (ix *Index) Structures(indicator, month string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range ix.Entries(indicator) {
		if month != "" && e.Month != month {
			continue
		}
		if _, ok := seen[e.Structure]; ok {
			continue
		}
		seen[e.Structure] = struct{}{}
		out = append(out, e.Structure)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the first column whose entry matches all three choices.
func (ix *Index) Resolve(indicator, month, structure string) (string, bool) {
	for _, e := range ix.Entries(indicator) {
		if e.Month == month && e.Structure == structure {
			return e.Column, true
		}
	}
	return "", false
}

// Column resolves a selection, reporting ErrUnknownSelection on a miss.
func (ix *Index) Column(sel Selection) (string, error) {
	if ix.Len() == 0 {
		return "", ErrNoIndicators
	}
	col, ok := ix.Resolve(sel.Indicator, sel.Month, sel.Structure)
	if !ok {
		return "", fmt.Errorf("%w: %q / %q / %q", ErrUnknownSelection, sel.Indicator, sel.Month, sel.Structure)
	}
	return col, nil
}

// Normalize replaces every choice that is empty or not offered by its
// dropdown with the first option, the way a select box falls back to its
// first item. The result resolves whenever the index is not empty.
func (ix *Index) Normalize(sel Selection) Selection {
	if ix.Len() == 0 {
		return Selection{}
	}
	sel.Indicator = pick(sel.Indicator, ix.Indicators())
	sel.Month = pick(sel.Month, ix.Months(sel.Indicator))
	sel.Structure = pick(sel.Structure, ix.Structures(sel.Indicator, sel.Month))
	return sel
}

func pick(choice string, options []string) string {
	for _, o := range options {
		if o == choice {
			return choice
		}
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
