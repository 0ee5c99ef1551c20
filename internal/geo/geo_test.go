package geo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/paludash/internal/dataset"
)

var cols = Columns{Latitude: "latitude", Longitude: "longitude", Name: "organisationunitname"}

func TestPointsFiltersInvalidCoordinates(t *testing.T) {
	tab := dataset.NewTable("d.csv", []string{"organisationunitname", "latitude", "longitude"}, [][]string{
		{"CS Akwa", "4.05", "9.70"},
		{"CS Bali", "", "9.69"},
		{"CS Deido", "4,06", "9,71"},
		{"CS Nulle", "abc", "9.7"},
		{"CS Hors", "95", "9.7"},
		{"CS Ouest", "4.1", "-181"},
	})
	pts, err := Points(tab, cols)
	require.NoError(t, err)
	assert.Equal(t, []Point{
		{Name: "CS Akwa", Lat: 4.05, Lon: 9.70},
		{Name: "CS Deido", Lat: 4.06, Lon: 9.71},
	}, pts)

	sw, ne, ok := Bounds(pts)
	require.True(t, ok)
	assert.Equal(t, [2]float64{4.05, 9.70}, sw)
	assert.Equal(t, [2]float64{4.06, 9.71}, ne)
}

func TestPointsRequiresBothColumns(t *testing.T) {
	tab := dataset.NewTable("d.csv", []string{"organisationunitname", "latitude"}, [][]string{{"A", "4"}})
	_, err := Points(tab, cols)
	assert.True(t, errors.Is(err, ErrNoCoordinates))
}

func TestFeatureCollection(t *testing.T) {
	b, err := FeatureCollection([]Point{{Name: "CS Akwa", Lat: 4.05, Lon: 9.7}})
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{9.7, 4.05}, doc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "CS Akwa", doc.Features[0].Properties["name"])

	empty, err := FeatureCollection(nil)
	require.NoError(t, err)
	doc.Features = nil
	require.NoError(t, json.Unmarshal(empty, &doc))
	assert.Empty(t, doc.Features)

	_, _, ok := Bounds(nil)
	assert.False(t, ok)
}
