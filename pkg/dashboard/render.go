package dashboard

import (
	"fmt"
	"slices"

	"co2dash/pkg/charts"
	"co2dash/pkg/dataset"
	"co2dash/pkg/sentinel"
	"co2dash/pkg/views"
)

// Color scales per panel.
const (
	MapScale = "YlOrRd"
	BarScale = "Blues"
)

// Selection is the widget state. Zero values pick the defaults: the latest
// year and the default scatter axes. HasYear marks Year as chosen by the
// user, so an explicit zero is validated like any other year.
type Selection struct {
	Year    int
	HasYear bool
	X, Y    string
}

// ViewState is everything the front ends need to draw one screen.
type ViewState struct {
	Selection  Selection
	Years      []int
	Covariates []string
	Records    int

	Map     views.Choropleth
	MapSpec charts.Spec

	Top     []dataset.Record
	TopSpec charts.Spec

	Scatter     views.Scatter
	ScatterSpec charts.Spec
}

// Covariates returns the scatter axes the dataset can actually supply.
func Covariates(ds *dataset.Dataset) []string {
	var out []string
	for _, c := range views.Covariates {
		if ds.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Defaults resolves the zero fields of sel against ds. The result always has
// HasYear set.
func Defaults(ds *dataset.Dataset, sel Selection) Selection {
	if sel.Year == 0 && !sel.HasYear {
		if years := views.Years(ds); len(years) > 0 {
			sel.Year = years[0]
		}
	}
	sel.HasYear = true
	available := Covariates(ds)
	pick := func(want string) string {
		if slices.Contains(available, want) || len(available) == 0 {
			return want
		}
		return available[0]
	}
	if sel.X == "" {
		sel.X = pick(views.DefaultX)
	}
	if sel.Y == "" {
		sel.Y = pick(views.DefaultY)
	}
	return sel
}

// Render derives all three panels for sel. It never modifies ds.
func Render(ds *dataset.Dataset, sel Selection) (ViewState, error) {
	sel = Defaults(ds, sel)
	vs := ViewState{
		Selection:  sel,
		Years:      views.Years(ds),
		Covariates: Covariates(ds),
		Records:    ds.Len(),
	}
	if len(vs.Years) == 0 {
		return vs, fmt.Errorf("%w: dataset has no rows", sentinel.ErrDataUnavailable)
	}

	var err error
	if vs.Map, err = views.Map(ds, sel.Year); err != nil {
		return vs, err
	}
	vs.MapSpec = charts.Spec{
		Kind:  charts.KindChoropleth,
		X:     dataset.ColCountry,
		Color: dataset.ColCO2,
		Scale: MapScale,
		Title: fmt.Sprintf("Per capita CO2 emissions by country, %d (tonnes)", sel.Year),
	}

	if vs.Top, err = views.Top(ds, sel.Year); err != nil {
		return vs, err
	}
	vs.TopSpec = charts.Spec{
		Kind:       charts.KindBar,
		X:          dataset.ColCO2,
		Y:          dataset.ColCountry,
		Color:      dataset.ColCO2,
		Scale:      BarScale,
		Horizontal: true,
		Title:      fmt.Sprintf("Top %d countries by per capita CO2 emissions, %d", views.TopCount, sel.Year),
	}

	if vs.Scatter, err = views.Correlation(ds, sel.Year, sel.X, sel.Y); err != nil {
		return vs, err
	}
	vs.ScatterSpec = charts.Spec{
		Kind:      charts.KindScatter,
		X:         sel.X,
		Y:         sel.Y,
		Text:      dataset.ColCountry,
		Trendline: true,
		Title:     fmt.Sprintf("%s vs %s (%d)", sel.X, sel.Y, sel.Year),
	}
	return vs, nil
}
