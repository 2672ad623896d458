// Package export writes a rendered dashboard state as an xlsx workbook and a
// markdown summary.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/dataset"
)

// Sheet names for a given year.
func TopSheet(year int) string         { return fmt.Sprintf("Top10_%d", year) }
func MapSheet(year int) string         { return fmt.Sprintf("Map_%d", year) }
func CorrelationSheet(year int) string { return fmt.Sprintf("Correlation_%d", year) }

type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(r int, values ...any) {
	for c, v := range values {
		if w.err != nil {
			return
		}
		var cell string
		cell, w.err = excelize.CoordinatesToCellName(c+1, r)
		if w.err == nil {
			w.err = w.f.SetCellValue(w.sheet, cell, v)
		}
	}
}

func (w *sheetWriter) header(width float64, headers ...string) {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	w.row(1, values...)
	if w.err != nil {
		return
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetColWidth(w.sheet, "A", last, width)
}

// Workbook builds one sheet per panel for the selected year.
func Workbook(vs dashboard.ViewState) (*excelize.File, error) {
	year := vs.Selection.Year
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", TopSheet(year)); err != nil {
		return nil, err
	}
	top := &sheetWriter{f: f, sheet: TopSheet(year)}
	top.header(18, "Rank", dataset.ColCountry, dataset.ColCO2)
	for i, r := range vs.Top {
		v, _ := r.CO2()
		top.row(i+2, i+1, r.Country, v)
	}
	if top.err != nil {
		return nil, top.err
	}

	if _, err := f.NewSheet(MapSheet(year)); err != nil {
		return nil, err
	}
	m := &sheetWriter{f: f, sheet: MapSheet(year)}
	m.header(18, dataset.ColCountry, dataset.ColCO2)
	for i, a := range vs.Map.Areas {
		var v any = ""
		if a.Valid {
			v = a.Value
		}
		m.row(i+2, a.Country, v)
	}
	if m.err != nil {
		return nil, m.err
	}

	if _, err := f.NewSheet(CorrelationSheet(year)); err != nil {
		return nil, err
	}
	c := &sheetWriter{f: f, sheet: CorrelationSheet(year)}
	c.header(20, dataset.ColCountry, vs.Scatter.X, vs.Scatter.Y)
	for i, p := range vs.Scatter.Points {
		c.row(i+2, p.Label, p.X, p.Y)
	}
	if trend, ok := charts.Fit(vs.Scatter.XS(), vs.Scatter.YS()); ok {
		at := len(vs.Scatter.Points) + 3
		c.row(at, "OLS intercept", trend.Alpha)
		c.row(at+1, "OLS slope", trend.Beta)
		c.row(at+2, "R²", trend.RSquared)
		c.row(at+3, "n", trend.N)
	}
	if c.err != nil {
		return nil, c.err
	}
	return f, nil
}

// WriteWorkbook saves the workbook for vs at path.
func WriteWorkbook(path string, vs dashboard.ViewState) error {
	f, err := Workbook(vs)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
