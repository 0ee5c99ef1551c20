// Package indicator parses DHIS2 pivot column headers of the form
// "<indicator> <month> <structure>" and indexes them for selection.
package indicator

import (
	"regexp"
	"strconv"
	"strings"
)

// Header is the decoded form of one measurement column name.
type Header struct {
	Indicator string
	Month     string
	Structure string
}

var months = map[string]int{
	"Janvier":   1,
	"Février":   2,
	"Fevrier":   2,
	"Mars":      3,
	"Avril":     4,
	"Mai":       5,
	"Juin":      6,
	"Juillet":   7,
	"Août":      8,
	"Aout":      8,
	"Septembre": 9,
	"Octobre":   10,
	"Novembre":  11,
	"Décembre":  12,
	"Decembre":  12,
}

var headerPattern = regexp.MustCompile(
	`^(.*?) (Janvier|Février|Fevrier|Mars|Avril|Mai|Juin|Juillet|Août|Aout|Septembre|Octobre|Novembre|Décembre|Decembre)(?: (\d{4}))? (.*)$`)

var yearOnly = regexp.MustCompile(`^\d{4}$`)

// ParseHeader splits a column name into indicator, month and structure. The
// month label keeps its year when present ("Janvier 2024"). The indicator is
// the shortest prefix followed by a month name, so an indicator must not
// itself contain a month name followed by a space.
func ParseHeader(col string) (Header, bool) {
	m := headerPattern.FindStringSubmatch(col)
	if m == nil {
		return Header{}, false
	}
	h := Header{
		Indicator: strings.TrimSpace(m[1]),
		Month:     m[2],
		Structure: strings.TrimSpace(m[4]),
	}
	if m[3] != "" {
		h.Month += " " + m[3]
	} else if yearOnly.MatchString(h.Structure) {
		// "<indicator> <Month> <YYYY>" carries no structure
		return Header{}, false
	}
	if h.Indicator == "" || h.Structure == "" {
		return Header{}, false
	}
	return h, true
}

// Column renders the header back to the column name it was parsed from.
func (h Header) Column() string {
	return h.Indicator + " " + h.Month + " " + h.Structure
}

// monthKey orders month labels chronologically: year first (labels without a
// year sort before dated ones), then calendar month. ok is false for labels
// that are not "<Month>" or "<Month> <YYYY>".
func monthKey(label string) (year, month int, ok bool) {
	name, rest, hasYear := strings.Cut(label, " ")
	month, ok = months[name]
	if !ok {
		return 0, 0, false
	}
	if hasYear {
		y, err := strconv.Atoi(rest)
		if err != nil {
			return 0, 0, false
		}
		year = y
	}
	return year, month, true
}

// lessMonth sorts month labels chronologically, falling back to plain string
// order for labels it cannot interpret.
func lessMonth(a, b string) bool {
	ya, ma, oka := monthKey(a)
	yb, mb, okb := monthKey(b)
	switch {
	case oka && okb:
		if ya != yb {
			return ya < yb
		}
		if ma != mb {
			return ma < mb
		}
		return a < b
	case oka != okb:
		return oka
	default:
		return a < b
	}
}
