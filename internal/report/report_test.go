package report

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/indicator"
)

var meta = []string{"organisationunitid", "organisationunitname", "organisationunitcode", "organisationunitdescription"}

func fixture() (*dataset.Table, *indicator.Index) {
	cols := []string{
		"organisationunitid", "organisationunitname",
		"Cas Confirmés Janvier 2024 CS", "Cas Confirmés Janvier 2024 HD",
		"Cas Confirmés Février 2024 CS",
	}
	rows := [][]string{
		{"u1", "CS Akwa", "12", "1", "5"},
		{"u2", "CS Bali", "n/a", "2", "7"},
		{"u3", "", "99", "3", "1"},
		{"u4", "CS Deido", "40", "", "2"},
		{"u5", "CS Bonabéri", "12", "4"},
		{"u6", "CS Logbaba", "1 200", "0", "x"},
		{"u7", "CS Ndogbong", "", "5", "3"},
	}
	t := dataset.NewTable("fixture.csv", cols, rows)
	return t, indicator.Build(cols, meta)
}

func opts() Options { return Options{NameColumn: "organisationunitname"} }

func TestBuildDropsMissingAndSortsDescending(t *testing.T) {
	tab, ix := fixture()
	v, err := Build(tab, ix, indicator.Selection{Indicator: "Cas Confirmés", Month: "Janvier 2024", Structure: "CS"}, opts())
	require.NoError(t, err)

	assert.Equal(t, "Cas Confirmés Janvier 2024 CS", v.ValueColumn)
	assert.Equal(t, []string{"CS Logbaba", "CS Deido", "CS Akwa", "CS Bonabéri"}, v.Names())
	assert.Equal(t, []float64{1200, 40, 12, 12}, v.Values())
	for i := 1; i < len(v.Rows); i++ {
		assert.GreaterOrEqual(t, v.Rows[i-1].Value, v.Rows[i].Value)
	}
	for _, r := range v.Rows {
		assert.False(t, math.IsNaN(r.Value))
		assert.NotEmpty(t, r.Name)
	}
	assert.Equal(t, "Cas Confirmés - Janvier 2024 (CS)", v.Title())
	assert.Equal(t, "Cas Confirmés (CS) - Janvier 2024", v.ChartTitle())
}

func TestBuildUnknownSelection(t *testing.T) {
	tab, ix := fixture()
	_, err := Build(tab, ix, indicator.Selection{Indicator: "Cas Confirmés", Month: "Février 2024", Structure: "HD"}, opts())
	assert.True(t, errors.Is(err, indicator.ErrUnknownSelection))

	_, err = BuildColumn(tab, indicator.Selection{}, "Cas Confirmés Janvier 2024 CS", Options{NameColumn: "nom"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	tab, ix := fixture()
	v, err := Build(tab, ix, indicator.Selection{Indicator: "Cas Confirmés", Month: "Janvier 2024", Structure: "HD"}, opts())
	require.NoError(t, err)
	s := Summarize(v)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 12.0, s.Total)
	assert.Equal(t, 2.4, s.Mean)
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 5.0, s.Max)

	assert.Equal(t, Summary{}, Summarize(&View{}))
}

func TestBuildTrend(t *testing.T) {
	tab, ix := fixture()
	tr, err := BuildTrend(tab, ix, "Cas Confirmés", nil, opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"Janvier 2024", "Février 2024"}, tr.Months)
	require.Len(t, tr.Series, 2)

	cs := tr.Series[0]
	assert.Equal(t, "CS", cs.Structure)
	require.Len(t, cs.Points, 2)
	assert.Equal(t, Point{MonthIndex: 0, Total: 1264, Units: 4}, cs.Points[0])
	assert.Equal(t, Point{MonthIndex: 1, Total: 17, Units: 4}, cs.Points[1])

	hd := tr.Series[1]
	assert.Equal(t, "HD", hd.Structure)
	require.Len(t, hd.Points, 1)
	assert.Equal(t, 0, hd.Points[0].MonthIndex)

	_, err = BuildTrend(tab, ix, "inconnu", nil, opts())
	assert.ErrorIs(t, err, indicator.ErrUnknownSelection)
}
