package web

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/gazetteer"
)

type fixture struct {
	server  *Server
	session *dashboard.Session
	router  http.Handler
}

func newFixture(t *testing.T, g *gazetteer.Gazetteer) *fixture {
	t.Helper()
	session := dashboard.Open(dashboard.Options{
		Path:   "../dataset/testdata/co2.csv",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(session.Close)

	srv, err := New(session, charts.NewRenderer(g), 8)
	require.NoError(t, err)
	return &fixture{server: srv, session: session, router: srv.Router()}
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestIndex_Default(t *testing.T) {
	f := newFixture(t, nil)
	w := f.get(t, "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Per capita CO2 emissions by country, 2020 (tonnes)")
	assert.Contains(t, body, "<option value=\"2020\" selected>")
	assert.Contains(t, body, "Kosovo")
	assert.NotContains(t, body, "class=\"notice\"")
	assert.NotContains(t, body, "/charts/choropleth.png", "no map image without a gazetteer")
}

func TestIndex_Tabs(t *testing.T) {
	f := newFixture(t, nil)

	top := f.get(t, "/?tab=top&year=2019").Body.String()
	assert.Contains(t, top, "Top 10 countries by per capita CO2 emissions, 2019")
	assert.Contains(t, top, "/charts/bar.png?x=gdp_per_capita&amp;y=CO2_per_Capita&amp;year=2019")
	assert.Contains(t, top, "<td>1</td><td>Qatar</td><td>37.00</td>")

	corr := f.get(t, "/?tab=correlation&x=population&y=gdp_per_capita").Body.String()
	assert.Contains(t, corr, "population vs gdp_per_capita (2020)")
	assert.Contains(t, corr, "<option value=\"population\" selected>")
}

func TestIndex_InvalidSelectionReprompts(t *testing.T) {
	f := newFixture(t, nil)

	for _, target := range []string{"/?year=1850", "/?year=abc", "/?year=0", "/?tab=correlation&x=co2_per_capita"} {
		w := f.get(t, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		body := w.Body.String()
		assert.Contains(t, body, "class=\"notice\"", target)
		assert.Contains(t, body, "invalid selection", target)
		assert.Contains(t, body, "<option value=\"2020\" selected>", target)
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(f.server.metrics.InvalidSelections))
}

func TestChart_BarAndScatter(t *testing.T) {
	f := newFixture(t, nil)

	for _, target := range []string{"/charts/bar.png?year=2020", "/charts/scatter.png?x=population"} {
		w := f.get(t, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	}

	f.get(t, "/charts/bar.png?year=2020")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.server.metrics.FigureCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.server.metrics.FigureCache.WithLabelValues("miss")))
}

func TestChart_Errors(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/charts/choropleth.png").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/charts/pie.png").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/charts/bar.png?year=abc").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/charts/bar.png?year=0").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/charts/scatter.png?y=co2_per_capita").Code)
}

func TestChart_Choropleth(t *testing.T) {
	g, err := gazetteer.Load(strings.NewReader(`{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "properties": {"name": "Brazil"},
	   "geometry": {"type": "Polygon", "coordinates": [[[-70, -30], [-40, -30], [-40, 0], [-70, 0], [-70, -30]]]}}]}`))
	require.NoError(t, err)
	f := newFixture(t, g)

	w := f.get(t, "/charts/choropleth.png?year=2019")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	assert.Contains(t, f.get(t, "/").Body.String(), "/charts/choropleth.png?")
}

func TestExportAndReport(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get(t, "/export.xlsx?year=2019")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "co2_2019.xlsx")
	book, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer book.Close()
	v, err := book.GetCellValue("Top10_2019", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Qatar", v)

	report := f.get(t, "/report.md")
	require.Equal(t, http.StatusOK, report.Code)
	assert.Contains(t, report.Body.String(), "| 1 | Qatar | 35.60 |")
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, "ok", f.get(t, "/healthz").Body.String())

	f.get(t, "/")
	metrics := f.get(t, "/metrics").Body.String()
	assert.Contains(t, metrics, `co2dash_renders_total{view="page"} 1`)
}

func TestDatasetReadOnce(t *testing.T) {
	f := newFixture(t, nil)
	for _, target := range []string{"/", "/?tab=top", "/charts/bar.png", "/export.xlsx", "/report.md"} {
		f.get(t, target)
	}
	assert.EqualValues(t, 1, f.session.Loads())
}

func TestSelectionQuery(t *testing.T) {
	sel, err := selectionFromQuery(map[string][]string{"year": {"2019"}, "x": {"population"}})
	require.NoError(t, err)
	assert.Equal(t, dashboard.Selection{Year: 2019, HasYear: true, X: "population"}, sel)
	assert.Equal(t, "x=population&y=&year=2019", selectionQuery(sel))
}
