// Package chart draws report views as PNG images with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/paludash/internal/report"
)

// YLabel is the value axis label of every chart.
const YLabel = "Nombre de cas"

var darkBlue = color.RGBA{R: 0x00, G: 0x00, B: 0x8b, A: 0xff}

// Size is the canvas size in inches.
type Size struct {
	Width  float64
	Height float64
}

// DefaultSize matches a wide 12x5 inch figure.
var DefaultSize = Size{Width: 12, Height: 5}

func (s Size) lengths() (vg.Length, vg.Length) {
	if s.Width <= 0 || s.Height <= 0 {
		s = DefaultSize
	}
	return vg.Length(s.Width) * vg.Inch, vg.Length(s.Height) * vg.Inch
}

// Bar draws one bar per unit in view order with unit names as rotated tick
// labels. An empty view draws an empty, titled plot.
func Bar(v *report.View, size Size) ([]byte, error) {
	p := plot.New()
	p.Title.Text = v.ChartTitle()
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = YLabel
	p.Y.Min = 0

	if n := len(v.Rows); n > 0 {
		w, _ := size.lengths()
		barWidth := vg.Points(math.Max(2, math.Min(20, float64(w.Points())*0.8/float64(n))))
		bars, err := plotter.NewBarChart(plotter.Values(v.Values()), barWidth)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = darkBlue
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(v.Names()...)
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Add(plotter.NewGrid())
	return encodePNG(p, size)
}

// Trend draws one line per structure across the trend's months.
func Trend(tr *report.Trend, size Size) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - évolution mensuelle", tr.Indicator)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = YLabel
	p.Y.Min = 0
	p.Legend.Top = true

	for i, s := range tr.Series {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			pts[j].X = float64(pt.MonthIndex)
			pts[j].Y = pt.Total
		}
		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("trend line %s: %w", s.Structure, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, scatter)
		p.Legend.Add(s.Structure, line, scatter)
	}
	if len(tr.Months) > 0 {
		p.NominalX(tr.Months...)
	}
	p.Add(plotter.NewGrid())
	return encodePNG(p, size)
}

func encodePNG(p *plot.Plot, size Size) ([]byte, error) {
	w, h := size.lengths()
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
