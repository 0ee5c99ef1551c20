// Package geo extracts geocoded organisational units for the map view.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/KaramelBytes/paludash/internal/dataset"
)

// ErrNoCoordinates is returned when the dataset lacks a latitude or a
// longitude column.
var ErrNoCoordinates = errors.New("latitude and longitude columns are missing from the dataset")

// Columns names the coordinate and label columns.
type Columns struct {
	Latitude  string
	Longitude string
	Name      string
	// DecimalSeparator is passed to dataset.ParseNumber; 0 auto-detects.
	DecimalSeparator rune
}

// Point is one geocoded unit.
type Point struct {
	Name string
	Lat  float64
	Lon  float64
}

// Points returns the units whose coordinates are both numeric and within
// WGS84 bounds. Both columns must exist, otherwise ErrNoCoordinates.
func Points(t *dataset.Table, c Columns) ([]Point, error) {
	if !t.Has(c.Latitude, c.Longitude) {
		return nil, ErrNoCoordinates
	}
	var out []Point
	for r := range t.Rows {
		lat, ok := dataset.ParseNumber(t.Cell(r, c.Latitude), c.DecimalSeparator)
		if !ok || lat < -90 || lat > 90 {
			continue
		}
		lon, ok := dataset.ParseNumber(t.Cell(r, c.Longitude), c.DecimalSeparator)
		if !ok || lon < -180 || lon > 180 {
			continue
		}
		out = append(out, Point{Name: strings.TrimSpace(t.Cell(r, c.Name)), Lat: lat, Lon: lon})
	}
	return out, nil
}

// FeatureCollection encodes points as GeoJSON with a "name" property.
func FeatureCollection(points []Point) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	for _, p := range points {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}),
			Properties: map[string]interface{}{"name": p.Name},
		})
	}
	b, err := json.Marshal(&fc)
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return b, nil
}

// Bounds returns the south-west and north-east corners enclosing points.
func Bounds(points []Point) (sw, ne [2]float64, ok bool) {
	if len(points) == 0 {
		return sw, ne, false
	}
	b := geom.NewBounds(geom.XY)
	for _, p := range points {
		b.Extend(geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}))
	}
	return [2]float64{b.Min(1), b.Min(0)}, [2]float64{b.Max(1), b.Max(0)}, true
}
