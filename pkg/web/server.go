// Package web serves the dashboard over HTTP. Every request re-renders the
// view state from the session's memoized dataset and the query string.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/dataset"
	"co2dash/pkg/sentinel"
)

//go:embed templates/*.html
var templates embed.FS

// DefaultFigureCacheSize bounds the number of PNGs kept in memory.
const DefaultFigureCacheSize = 256

type figureKey struct {
	kind charts.Kind
	sel  dashboard.Selection
}

// Server holds the per-process dashboard state.
type Server struct {
	session  *dashboard.Session
	renderer *charts.Renderer
	figures  *lru.Cache[figureKey, []byte]
	metrics  *Metrics
	registry *prometheus.Registry
	page     *template.Template
	log      *slog.Logger
}

// New builds a server for session. The renderer's gazetteer, if any,
// enables the map panel.
func New(session *dashboard.Session, renderer *charts.Renderer, figureCacheSize int) (*Server, error) {
	if figureCacheSize <= 0 {
		figureCacheSize = DefaultFigureCacheSize
	}
	figures, err := lru.New[figureKey, []byte](figureCacheSize)
	if err != nil {
		return nil, err
	}
	page, err := template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	return &Server{
		session:  session,
		renderer: renderer,
		figures:  figures,
		metrics:  NewMetrics(reg),
		registry: reg,
		page:     page,
		log:      session.Logger(),
	}, nil
}

// NewHTTPServer wraps handler with the project's server timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Router returns the dashboard routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/charts/{kind}.png", s.handleChart)
	r.Get("/export.xlsx", s.handleWorkbook)
	r.Get("/report.md", s.handleReport)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// selectionFromQuery reads year, x and y. Empty values mean defaults.
func selectionFromQuery(q url.Values) (dashboard.Selection, error) {
	sel := dashboard.Selection{X: q.Get("x"), Y: q.Get("y")}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return dashboard.Selection{}, fmt.Errorf("%w: year %q", sentinel.ErrInvalidSelection, raw)
		}
		sel.Year, sel.HasYear = year, true
	}
	return sel, nil
}

func selectionQuery(sel dashboard.Selection) string {
	q := url.Values{}
	q.Set("year", strconv.Itoa(sel.Year))
	q.Set("x", sel.X)
	q.Set("y", sel.Y)
	return q.Encode()
}

// render loads the dataset and renders the selection in r's query string.
func (s *Server) render(r *http.Request) (dashboard.ViewState, error) {
	ds, err := s.session.Dataset(r.Context())
	if err != nil {
		return dashboard.ViewState{}, err
	}
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		return dashboard.ViewState{}, err
	}
	return dashboard.Render(ds, sel)
}

func (s *Server) figure(kind charts.Kind, vs dashboard.ViewState) ([]byte, error) {
	key := figureKey{kind: kind, sel: vs.Selection}
	if png, ok := s.figures.Get(key); ok {
		s.metrics.FigureCache.WithLabelValues("hit").Inc()
		return png, nil
	}
	s.metrics.FigureCache.WithLabelValues("miss").Inc()

	var buf bytes.Buffer
	var err error
	switch kind {
	case charts.KindChoropleth:
		var unmatched []string
		unmatched, err = s.renderer.Choropleth(&buf, vs.MapSpec, vs.Map)
		if len(unmatched) > 0 {
			s.log.Debug("countries not on map", "year", vs.Selection.Year, "count", len(unmatched))
		}
	case charts.KindBar:
		err = s.renderer.Bar(&buf, vs.TopSpec, vs.Top)
	case charts.KindScatter:
		_, _, err = s.renderer.Scatter(&buf, vs.ScatterSpec, vs.Scatter)
	default:
		return nil, errUnknownChart
	}
	if err != nil {
		return nil, err
	}
	s.figures.Add(key, buf.Bytes())
	return buf.Bytes(), nil
}

var errUnknownChart = errors.New("unknown chart")

// status maps the error taxonomy onto HTTP.
func status(err error) int {
	switch {
	case errors.Is(err, sentinel.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, errUnknownChart), errors.Is(err, charts.ErrNoGazetteer):
		return http.StatusNotFound
	case errors.Is(err, sentinel.ErrDataUnavailable), errors.Is(err, sentinel.ErrSchemaMismatch):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	if sentinel.Recoverable(err) {
		s.metrics.InvalidSelections.Inc()
	}
	http.Error(w, err.Error(), code)
}

var funcs = template.FuncMap{
	"co2": func(r dataset.Record) string {
		if v, ok := r.CO2(); ok {
			return fmt.Sprintf("%.2f", v)
		}
		return "–"
	},
	"area": func(v float64, ok bool) string {
		if !ok {
			return "–"
		}
		return fmt.Sprintf("%.2f", v)
	},
	"inc": func(i int) int { return i + 1 },
}
