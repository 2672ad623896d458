package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the dashboard's Prometheus collectors.
type Metrics struct {
	Renders           *prometheus.CounterVec
	InvalidSelections prometheus.Counter
	FigureCache       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "co2dash_renders_total",
			Help: "Dashboard renders by view.",
		}, []string{"view"}),
		InvalidSelections: f.NewCounter(prometheus.CounterOpts{
			Name: "co2dash_invalid_selections_total",
			Help: "Selections rejected and re-prompted.",
		}),
		FigureCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "co2dash_figure_cache_total",
			Help: "Figure cache lookups by result.",
		}, []string{"result"}),
	}
}
