package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a raw cell to a float. Anything that is not a finite
// number, including an empty cell, reports ok=false and is treated as missing.
//
// decimal selects the decimal separator; 0 auto-detects per value, where the
// right-most of ',' and '.' is taken as the decimal mark. Thousands
// separators (',', '.', space, no-break space) are removed.
func ParseNumber(s string, decimal rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.ReplaceAll(raw, "\u202F", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := decimal
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec = ','
		case cpos >= 0 && dpos < 0 && !looksGrouped(raw, ','):
			dec = ','
		case dpos >= 0 && cpos < 0 && strings.Count(raw, ".") > 1 && looksGrouped(raw, '.'):
			// "1.234.567": dots only group thousands; a single dot stays decimal.
			dec = ','
		default:
			dec = '.'
		}
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// looksGrouped reports whether sep is used as a thousands separator, as in
// "1,234" or "12,345,678". A leading zero never starts a group, so "0,125"
// and "00,250" are decimals.
func looksGrouped(s string, sep rune) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 {
		return false
	}
	lead := strings.TrimLeft(parts[0], "+-")
	if lead == "" || lead[0] == '0' {
		return false
	}
	if len(parts) == 2 && len(parts[1]) != 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return len(parts) > 2 || len(lead) <= 3
}
