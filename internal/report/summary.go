package report

import (
	"github.com/montanaflynn/stats"
)

// Summary holds headline figures for a view.
type Summary struct {
	Count  int
	Total  float64
	Mean   float64
	Median float64
	Max    float64
}

// Summarize computes the summary of a view. An empty view yields zeros.
func Summarize(v *View) Summary {
	data := stats.Float64Data(v.Values())
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(data)}
	s.Total, _ = data.Sum()
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.Max, _ = data.Max()
	return s
}
