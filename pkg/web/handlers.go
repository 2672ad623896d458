package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/export"
	"co2dash/pkg/sentinel"
)

type tab struct{ ID, Label string }

// Tabs in display order.
var tabs = []tab{
	{"map", "World map"},
	{"top", "Top 10"},
	{"correlation", "Correlation"},
}

type pageData struct {
	VS      dashboard.ViewState
	Tab     string
	Tabs    []tab
	Notice  string
	Query   template.URL
	HasMap  bool
	Session string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	vs, err := s.render(r)
	notice := ""
	if err != nil && sentinel.Recoverable(err) {
		// Re-prompt with the defaults instead of failing the page.
		s.metrics.InvalidSelections.Inc()
		notice = err.Error()
		ds, loadErr := s.session.Dataset(r.Context())
		if loadErr != nil {
			s.fail(w, r, loadErr)
			return
		}
		vs, err = dashboard.Render(ds, dashboard.Selection{})
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Renders.WithLabelValues("page").Inc()

	current := r.URL.Query().Get("tab")
	if !slices.ContainsFunc(tabs, func(t tab) bool { return t.ID == current }) {
		current = tabs[0].ID
	}

	data := pageData{
		VS:      vs,
		Tab:     current,
		Tabs:    tabs,
		Notice:  notice,
		Query:   template.URL(selectionQuery(vs.Selection)),
		HasMap:  s.renderer.Gazetteer != nil,
		Session: s.session.ID.String(),
	}
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := charts.Kind(chi.URLParam(r, "kind"))
	vs, err := s.render(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	png, err := s.figure(kind, vs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Renders.WithLabelValues(string(kind)).Inc()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(png)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	vs, err := s.render(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := export.Workbook(vs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	s.metrics.Renders.WithLabelValues("export").Inc()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("co2_%d.xlsx", vs.Selection.Year)))
	if err := f.Write(w); err != nil {
		s.log.Error("write workbook", "err", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	vs, err := s.render(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	info := export.ReportInfo{Source: "session " + s.session.ID.String(), Generated: time.Now()}
	if err := export.Report(&buf, vs, info); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Renders.WithLabelValues("report").Inc()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
