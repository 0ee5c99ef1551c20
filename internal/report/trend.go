package report

import (
	"fmt"

	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/indicator"
)

// Point is the total of one month across all units.
type Point struct {
	// MonthIndex is the position of the month in Trend.Months.
	MonthIndex int
	Total      float64
	Units      int
}

// Series is the monthly evolution of one structure.
type Series struct {
	Structure string
	Points    []Point
}

// Trend compares an indicator month by month for one or more structures.
type Trend struct {
	Indicator string
	Months    []string
	Series    []Series
}

// BuildTrend sums each (month, structure) column of an indicator over all
// units. An empty structures list compares every structure the indicator
// reports. Months where a structure has no column are left out of its series.
func BuildTrend(t *dataset.Table, ix *indicator.Index, ind string, structures []string, opt Options) (*Trend, error) {
	if ix.Len() == 0 {
		return nil, indicator.ErrNoIndicators
	}
	months := ix.Months(ind)
	if len(months) == 0 {
		return nil, fmt.Errorf("%w: unknown indicator %q", indicator.ErrUnknownSelection, ind)
	}
	if len(structures) == 0 {
		structures = ix.Structures(ind, "")
	}
	tr := &Trend{Indicator: ind, Months: months}
	for _, st := range structures {
		s := Series{Structure: st}
		for mi, m := range months {
			col, ok := ix.Resolve(ind, m, st)
			if !ok {
				continue
			}
			v, err := BuildColumn(t, indicator.Selection{Indicator: ind, Month: m, Structure: st}, col, opt)
			if err != nil {
				return nil, err
			}
			p := Point{MonthIndex: mi, Units: len(v.Rows)}
			for _, r := range v.Rows {
				p.Total += r.Value
			}
			s.Points = append(s.Points, p)
		}
		tr.Series = append(tr.Series, s)
	}
	return tr, nil
}
