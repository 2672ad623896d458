package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"co2dash/pkg/dataset"
	"co2dash/pkg/gazetteer"
	"co2dash/pkg/views"
)

// ErrNoGazetteer is returned when a map is requested without country outlines.
var ErrNoGazetteer = errors.New("charts: no gazetteer loaded")

var (
	landColor   = color.RGBA{R: 225, G: 225, B: 225, A: 255}
	borderColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pointColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	trendColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer draws figures as PNG.
type Renderer struct {
	Width, Height vg.Length
	// Gazetteer supplies country outlines for choropleths; may be nil.
	Gazetteer *gazetteer.Gazetteer
}

func NewRenderer(g *gazetteer.Gazetteer) *Renderer {
	return &Renderer{Width: 12 * vg.Inch, Height: 7 * vg.Inch, Gazetteer: g}
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	return p
}

func (r *Renderer) save(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func fieldText(rec dataset.Record, field string) string {
	if s, ok := rec.Text(field); ok {
		return s
	}
	if v, ok := rec.Value(field); ok {
		return fmt.Sprintf("%g", v)
	}
	return ""
}

// Bar draws one bar per record, in the order given, the first record
// outermost (top for horizontal bars). Bars are shaded by spec.Color.
func (r *Renderer) Bar(w io.Writer, spec Spec, records []dataset.Record) error {
	p := newPlot(spec.Title)
	valueField, labelField := spec.Y, spec.X
	if spec.Horizontal {
		valueField, labelField = spec.X, spec.Y
	}
	p.X.Label.Text, p.Y.Label.Text = spec.X, spec.Y

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, rec := range records {
		if v, ok := rec.Value(spec.Color); ok {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	scale, err := NewColorScale(spec.Scale, lo, hi)
	if err != nil {
		return err
	}

	n := len(records)
	names := make([]string, n)
	for i, rec := range records {
		v, _ := rec.Value(valueField)
		pos := float64(i)
		if spec.Horizontal {
			pos = float64(n - 1 - i)
		}
		names[int(pos)] = fieldText(rec, labelField)

		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(18))
		if err != nil {
			return err
		}
		bar.Horizontal = spec.Horizontal
		bar.XMin = pos
		shade, _ := rec.Value(spec.Color)
		bar.Color = scale.At(shade)
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)

		at := plotter.XY{X: pos, Y: v}
		if spec.Horizontal {
			at = plotter.XY{X: v, Y: pos}
		}
		label, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{at},
			Labels: []string{fmt.Sprintf("%.1f", v)},
		})
		if err != nil {
			return err
		}
		p.Add(label)
	}

	if spec.Horizontal {
		p.NominalY(names...)
		p.X.Min = 0
		if hi > 0 {
			p.X.Max = hi * 1.1
		}
	} else {
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XCenter
		p.Y.Min = 0
	}
	return r.save(p, w)
}

// Scatter draws the labelled points and, when spec.Trendline is set and the
// data allows it, an OLS trend line. The fitted trend is returned.
func (r *Renderer) Scatter(w io.Writer, spec Spec, s views.Scatter) (Trend, bool, error) {
	p := newPlot(spec.Title)
	p.X.Label.Text = spec.X
	p.Y.Label.Text = spec.Y
	p.Add(plotter.NewGrid())

	if len(s.Points) > 0 {
		points := make(plotter.XYs, len(s.Points))
		labels := make([]string, len(s.Points))
		for i, pt := range s.Points {
			points[i] = plotter.XY{X: pt.X, Y: pt.Y}
			labels[i] = pt.Label
		}

		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return Trend{}, false, err
		}
		scatter.GlyphStyle.Color = pointColor
		scatter.GlyphStyle.Radius = vg.Points(4)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)

		if spec.Text != "" {
			labelPoints, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
			if err != nil {
				return Trend{}, false, err
			}
			p.Add(labelPoints)
		}
	}

	trend, fitted := Fit(s.XS(), s.YS())
	if spec.Trendline && fitted {
		line := plotter.NewFunction(trend.At)
		line.Color = trendColor
		line.Width = vg.Points(1.5)
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("OLS trend (R² = %.3f)", trend.RSquared), line)
		p.Legend.Top = true
	}
	return trend, fitted, r.save(p, w)
}

// Choropleth shades each country of c by its value. Countries the gazetteer
// does not know are returned as unmatched.
func (r *Renderer) Choropleth(w io.Writer, spec Spec, c views.Choropleth) ([]string, error) {
	if r.Gazetteer == nil {
		return nil, ErrNoGazetteer
	}
	p := newPlot(spec.Title)
	p.HideAxes()
	p.X.Min, p.X.Max = -180, 180
	p.Y.Min, p.Y.Max = -60, 85

	for _, rings := range r.Gazetteer.All() {
		if err := addRings(p, rings, landColor); err != nil {
			return nil, err
		}
	}

	scale, err := NewColorScale(spec.Scale, c.Min, c.Max)
	if err != nil {
		return nil, err
	}
	var unmatched []string
	for _, a := range c.Areas {
		rings, ok := r.Gazetteer.Rings(a.Country)
		if !ok {
			unmatched = append(unmatched, a.Country)
			continue
		}
		if !a.Valid {
			continue
		}
		if err := addRings(p, rings, scale.At(a.Value)); err != nil {
			return nil, err
		}
	}

	for _, stop := range scale.Stops(5) {
		swatch, err := plotter.NewPolygon(plotter.XYs{{X: 0, Y: 0}})
		if err != nil {
			return nil, err
		}
		swatch.Color = scale.At(stop)
		p.Legend.Add(fmt.Sprintf("%.1f", stop), swatch)
	}
	p.Legend.Left = true
	return unmatched, r.save(p, w)
}

func addRings(p *plot.Plot, rings []gazetteer.Ring, fill color.Color) error {
	for _, ring := range rings {
		xys := make(plotter.XYs, len(ring))
		for i, pt := range ring {
			xys[i] = plotter.XY{X: pt[0], Y: pt[1]}
		}
		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return err
		}
		poly.Color = fill
		poly.LineStyle.Color = borderColor
		poly.LineStyle.Width = vg.Points(0.3)
		p.Add(poly)
	}
	return nil
}
