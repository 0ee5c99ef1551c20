package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/KaramelBytes/paludash/internal/indicator"
	"github.com/KaramelBytes/paludash/internal/report"
)

func decode(t *testing.T, b []byte) (w, h int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	r := img.Bounds()
	return r.Dx(), r.Dy()
}

func TestBarRendersPNG(t *testing.T) {
	v := &report.View{
		Selection: indicator.Selection{Indicator: "Cas Confirmés", Month: "Janvier 2024", Structure: "CS"},
		Rows: []report.Row{
			{Name: "CS Logbaba", Value: 120},
			{Name: "CS Deido", Value: 40},
			{Name: "CS Akwa", Value: 12},
		},
	}
	b, err := Bar(v, Size{Width: 4, Height: 3})
	if err != nil {
		t.Fatalf("Bar: %v", err)
	}
	w, h := decode(t, b)
	if w <= h {
		t.Fatalf("expected landscape image, got %dx%d", w, h)
	}
}

func TestBarEmptyView(t *testing.T) {
	b, err := Bar(&report.View{}, Size{})
	if err != nil {
		t.Fatalf("Bar empty: %v", err)
	}
	decode(t, b)
}

func TestTrendRendersPNG(t *testing.T) {
	tr := &report.Trend{
		Indicator: "Cas Confirmés",
		Months:    []string{"Janvier 2024", "Février 2024", "Mars 2024"},
		Series: []report.Series{
			{Structure: "CS", Points: []report.Point{{MonthIndex: 0, Total: 10}, {MonthIndex: 1, Total: 14}, {MonthIndex: 2, Total: 9}}},
			{Structure: "HD", Points: []report.Point{{MonthIndex: 1, Total: 3}}},
			{Structure: "PS"},
		},
	}
	b, err := Trend(tr, DefaultSize)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	decode(t, b)
}
