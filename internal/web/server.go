// Package web serves the dashboard pages over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/paludash/internal/chart"
	"github.com/KaramelBytes/paludash/internal/dataset"
	"github.com/KaramelBytes/paludash/internal/geo"
	"github.com/KaramelBytes/paludash/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the templates rendered inside the shared layout.
var pageNames = []string{"home", "analyse", "carte", "comparaison", "telechargements", "error"}

// Settings carries the dataset schema and rendering options.
type Settings struct {
	NameColumn       string
	LatitudeColumn   string
	LongitudeColumn  string
	DecimalSeparator rune
	TileURL          string
	ChartSize        chart.Size
}

// Server renders the dashboard from a dataset cache.
type Server struct {
	cache    *dataset.Cache
	settings Settings
	log      *slog.Logger
	pages    map[string]*template.Template
	router   chi.Router
}

// New creates a server and parses its templates.
func New(cache *dataset.Cache, settings Settings, log *slog.Logger) (*Server, error) {
	s := &Server{
		cache:    cache,
		settings: settings,
		log:      log,
		pages:    make(map[string]*template.Template, len(pageNames)),
	}
	funcs := template.FuncMap{
		"num": formatNumber,
		"add": func(a, b int) int { return a + b },
	}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.pages[name] = t
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler of the dashboard.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleHome)
	r.Get("/analyse", s.handleAnalyse)
	r.Get("/analyse/chart.png", s.handleAnalyseChart)
	r.Get("/analyse/export.xlsx", s.handleAnalyseExport)
	r.Get("/carte", s.handleMap)
	r.Get("/carte/points.geojson", s.handleMapPoints)
	r.Get("/comparaison", s.handleCompare)
	r.Get("/comparaison/chart.png", s.handleCompareChart)
	r.Get("/telechargements", s.handleDownloads)
	r.Get("/telechargements/data.csv", s.handleRawCSV)
	r.Get("/telechargements/indicateur.xlsx", s.handleIndicatorWorkbook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, errors.New("page introuvable"))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", addr, "data", s.cache.Path())
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) reportOptions() report.Options {
	return report.Options{NameColumn: s.settings.NameColumn, DecimalSeparator: s.settings.DecimalSeparator}
}

func (s *Server) geoColumns() geo.Columns {
	return geo.Columns{
		Latitude:         s.settings.LatitudeColumn,
		Longitude:        s.settings.LongitudeColumn,
		Name:             s.settings.NameColumn,
		DecimalSeparator: s.settings.DecimalSeparator,
	}
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
