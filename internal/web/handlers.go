package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/KaramelBytes/paludash/internal/chart"
	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/export"
	"github.com/KaramelBytes/paludash/internal/geo"
	"github.com/KaramelBytes/paludash/internal/indicator"
	"github.com/KaramelBytes/paludash/internal/report"
)

// Query parameters of the selection widgets.
const (
	paramIndicator = "indicateur"
	paramMonth     = "mois"
	paramStructure = "structure"
)

const warnNoIndicator = "Aucun indicateur reconnu dans les colonnes du fichier."

type menuItem struct {
	Key   string
	Label string
	Path  string
}

var menu = []menuItem{
	{"home", "Accueil", "/"},
	{"analyse", "Analyse par indicateur", "/analyse"},
	{"carte", "Carte interactive", "/carte"},
	{"comparaison", "Comparaison temporelle", "/comparaison"},
	{"telechargements", "Téléchargements", "/telechargements"},
}

type page struct {
	Title    string
	Active   string
	Menu     []menuItem
	Source   string
	LoadedAt time.Time
	Warning  string
}

func (s *Server) newPage(key, title string, snap *dataset.Snapshot) page {
	p := page{Title: title, Active: key, Menu: menu}
	if snap != nil {
		p.Source = snap.Source
		p.LoadedAt = snap.LoadedAt
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, name string, status int, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error("render template", "page", name, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	page
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	p := errorPage{page: s.newPage("", http.StatusText(status), nil), Status: status, Message: err.Error()}
	s.render(w, "error", status, p)
}

// snapshot returns the cached dataset or writes an error response.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*dataset.Snapshot, bool) {
	snap, err := s.cache.Get(r.Context())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, fmt.Errorf("chargement des données: %w", err))
		return nil, false
	}
	return snap, true
}

func selectionFrom(r *http.Request) indicator.Selection {
	q := r.URL.Query()
	return indicator.Selection{
		Indicator: q.Get(paramIndicator),
		Month:     q.Get(paramMonth),
		Structure: q.Get(paramStructure),
	}
}

func selectionQuery(sel indicator.Selection) template.URL {
	q := url.Values{}
	q.Set(paramIndicator, sel.Indicator)
	q.Set(paramMonth, sel.Month)
	q.Set(paramStructure, sel.Structure)
	return template.URL(q.Encode())
}

func attachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

type homePage struct {
	page
	Units      int
	Columns    int
	Indicators int
	Unmatched  []string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p := homePage{
		page:       s.newPage("home", "Tableau de bord Paludisme", snap),
		Units:      snap.Table.Len(),
		Columns:    len(snap.Table.Columns),
		Indicators: snap.Index.Len(),
		Unmatched:  snap.Index.Unmatched,
	}
	s.render(w, "home", http.StatusOK, p)
}

type analysePage struct {
	page
	Selection  indicator.Selection
	Indicators []string
	Months     []string
	Structures []string
	View       *report.View
	Summary    report.Summary
	Query      template.URL
}

func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p := analysePage{page: s.newPage("analyse", "Analyse par indicateur", snap)}
	if snap.Index.Len() == 0 {
		p.Warning = warnNoIndicator
		s.render(w, "analyse", http.StatusOK, p)
		return
	}
	sel := snap.Index.Normalize(selectionFrom(r))
	p.Selection = sel
	p.Indicators = snap.Index.Indicators()
	p.Months = snap.Index.Months(sel.Indicator)
	p.Structures = snap.Index.Structures(sel.Indicator, sel.Month)
	p.Query = selectionQuery(sel)

	v, err := report.Build(snap.Table, snap.Index, sel, s.reportOptions())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	p.View = v
	p.Summary = report.Summarize(v)
	s.render(w, "analyse", http.StatusOK, p)
}

// view resolves the request's selection to a view, answering 404 when the
// selection is not in the index.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*report.View, bool) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return nil, false
	}
	v, err := report.Build(snap.Table, snap.Index, selectionFrom(r), s.reportOptions())
	switch {
	case errors.Is(err, indicator.ErrUnknownSelection), errors.Is(err, indicator.ErrNoIndicators):
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	case err != nil:
		s.renderError(w, r, http.StatusInternalServerError, err)
		return nil, false
	}
	return v, true
}

func (s *Server) handleAnalyseChart(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	png, err := chart.Bar(v, s.settings.ChartSize)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleAnalyseExport(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	buf, err := export.ViewXLSX(v)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	attachment(w, export.Filename(v.Selection), export.ContentTypeXLSX)
	_, _ = buf.WriteTo(w)
}

type mapPage struct {
	page
	Points  int
	TileURL string
	Bounds  [2][2]float64
	Fit     bool
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p := mapPage{page: s.newPage("carte", "Carte interactive des cas", snap), TileURL: s.settings.TileURL}
	pts, err := geo.Points(snap.Table, s.geoColumns())
	if errors.Is(err, geo.ErrNoCoordinates) {
		p.Warning = "Les colonnes latitude et longitude sont absentes du fichier."
		s.render(w, "carte", http.StatusOK, p)
		return
	}
	p.Points = len(pts)
	if sw, ne, ok := geo.Bounds(pts); ok {
		p.Bounds = [2][2]float64{sw, ne}
		p.Fit = true
	}
	s.render(w, "carte", http.StatusOK, p)
}

func (s *Server) handleMapPoints(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	pts, err := geo.Points(snap.Table, s.geoColumns())
	if errors.Is(err, geo.ErrNoCoordinates) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	b, err := geo.FeatureCollection(pts)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(b)
}

type comparePage struct {
	page
	Indicator  string
	Structure  string
	Indicators []string
	Structures []string
	Trend      *report.Trend
	Rows       []compareRow
	Query      template.URL
}

// compareRow is one structure of the comparison table, one cell per month.
type compareRow struct {
	Structure string
	Cells     []string
}

func compareRows(tr *report.Trend) []compareRow {
	rows := make([]compareRow, 0, len(tr.Series))
	for _, s := range tr.Series {
		row := compareRow{Structure: s.Structure, Cells: make([]string, len(tr.Months))}
		for _, p := range s.Points {
			row.Cells[p.MonthIndex] = formatNumber(p.Total)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p := comparePage{page: s.newPage("comparaison", "Comparaison temporelle des cas", snap)}
	if snap.Index.Len() == 0 {
		p.Warning = warnNoIndicator
		s.render(w, "comparaison", http.StatusOK, p)
		return
	}
	ind, structure := s.compareSelection(snap.Index, r)
	p.Indicator, p.Structure = ind, structure
	p.Indicators = snap.Index.Indicators()
	p.Structures = snap.Index.Structures(ind, "")

	tr, err := report.BuildTrend(snap.Table, snap.Index, ind, structuresFilter(structure), s.reportOptions())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	p.Trend = tr
	p.Rows = compareRows(tr)
	q := url.Values{}
	q.Set(paramIndicator, ind)
	if structure != "" {
		q.Set(paramStructure, structure)
	}
	p.Query = template.URL(q.Encode())
	s.render(w, "comparaison", http.StatusOK, p)
}

// compareSelection reads the indicator and an optional structure; an empty or
// unknown structure compares all of them.
func (s *Server) compareSelection(ix *indicator.Index, r *http.Request) (string, string) {
	sel := ix.Normalize(indicator.Selection{Indicator: r.URL.Query().Get(paramIndicator)})
	structure := r.URL.Query().Get(paramStructure)
	for _, st := range ix.Structures(sel.Indicator, "") {
		if st == structure {
			return sel.Indicator, structure
		}
	}
	return sel.Indicator, ""
}

func structuresFilter(structure string) []string {
	if structure == "" {
		return nil
	}
	return []string{structure}
}

func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	if snap.Index.Len() == 0 {
		http.Error(w, indicator.ErrNoIndicators.Error(), http.StatusNotFound)
		return
	}
	ind, structure := s.compareSelection(snap.Index, r)
	tr, err := report.BuildTrend(snap.Table, snap.Index, ind, structuresFilter(structure), s.reportOptions())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	png, err := chart.Trend(tr, s.settings.ChartSize)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

type downloadsPage struct {
	page
	Indicators []string
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p := downloadsPage{page: s.newPage("telechargements", "Téléchargement des fichiers", snap), Indicators: snap.Index.Indicators()}
	s.render(w, "telechargements", http.StatusOK, p)
}

func (s *Server) handleRawCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.CSV(snap.Table, &buf); err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	attachment(w, "data.csv", export.ContentTypeCSV)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndicatorWorkbook(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	ind := r.URL.Query().Get(paramIndicator)
	buf, err := export.IndicatorXLSX(snap.Table, snap.Index, ind, s.reportOptions())
	switch {
	case errors.Is(err, indicator.ErrUnknownSelection):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	attachment(w, ind+".xlsx", export.ContentTypeXLSX)
	_, _ = buf.WriteTo(w)
}
