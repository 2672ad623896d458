package charts

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2dash/pkg/dataset"
	"co2dash/pkg/gazetteer"
	"co2dash/pkg/views"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestFit_ExactLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 5, 7, 9}

	trend, ok := Fit(xs, ys)
	require.True(t, ok)
	assert.InDelta(t, 1.0, trend.Alpha, 1e-9)
	assert.InDelta(t, 2.0, trend.Beta, 1e-9)
	assert.InDelta(t, 1.0, trend.RSquared, 1e-9)
	assert.Equal(t, 5, trend.N)
	assert.InDelta(t, 21.0, trend.At(10), 1e-9)
}

func TestFit_Degenerate(t *testing.T) {
	_, ok := Fit([]float64{1}, []float64{2})
	assert.False(t, ok)
	_, ok = Fit([]float64{3, 3, 3}, []float64{1, 2, 3})
	assert.False(t, ok, "vertical data has no slope")
	_, ok = Fit([]float64{1, 2}, []float64{1})
	assert.False(t, ok)
}

func TestColorScale(t *testing.T) {
	s, err := NewColorScale("YlOrRd", 0, 10)
	require.NoError(t, err)

	first := color.RGBAModel.Convert(s.colors[0])
	last := color.RGBAModel.Convert(s.colors[len(s.colors)-1])
	assert.Equal(t, first, color.RGBAModel.Convert(s.At(0)))
	assert.Equal(t, last, color.RGBAModel.Convert(s.At(10)))
	assert.Equal(t, first, color.RGBAModel.Convert(s.At(-5)), "below range clamps")
	assert.Equal(t, last, color.RGBAModel.Convert(s.At(99)), "above range clamps")

	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, s.Stops(5))

	_, err = NewColorScale("NoSuchScale", 0, 1)
	assert.Error(t, err)
}

func TestColorScale_FlatRange(t *testing.T) {
	s, err := NewColorScale("Blues", 3, 3)
	require.NoError(t, err)
	assert.NotNil(t, s.At(3))
	assert.Equal(t, []float64{3}, s.Stops(5))
}

func topRecords() []dataset.Record {
	return []dataset.Record{
		dataset.NewRecord(2, "Qatar", 2020, map[string]float64{dataset.ColCO2: 35.6}),
		dataset.NewRecord(0, "Brazil", 2020, map[string]float64{dataset.ColCO2: 2.5}),
		dataset.NewRecord(1, "Chad", 2020, map[string]float64{dataset.ColCO2: 0.1}),
	}
}

func TestRenderer_Bar(t *testing.T) {
	spec := Spec{Kind: KindBar, X: dataset.ColCO2, Y: dataset.ColCountry, Color: dataset.ColCO2,
		Scale: "Blues", Horizontal: true, Title: "top"}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(nil).Bar(&buf, spec, topRecords()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	require.NoError(t, NewRenderer(nil).Bar(&buf, spec, nil), "an empty year still renders")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderer_Scatter(t *testing.T) {
	s := views.Scatter{Year: 2020, X: dataset.ColGDP, Y: dataset.ColCO2, Points: []views.Point{
		{X: 14000, Y: 2.5, Label: "Brazil"},
		{X: 1550, Y: 0.1, Label: "Chad"},
		{X: 85000, Y: 35.6, Label: "Qatar"},
	}}
	spec := Spec{Kind: KindScatter, X: s.X, Y: s.Y, Text: dataset.ColCountry, Trendline: true, Title: "scatter"}

	var buf bytes.Buffer
	trend, ok, err := NewRenderer(nil).Scatter(&buf, spec, s)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Greater(t, trend.Beta, 0.0)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	buf.Reset()
	_, ok, err = NewRenderer(nil).Scatter(&buf, spec, views.Scatter{})
	require.NoError(t, err)
	assert.False(t, ok)
}

const square = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "Qatar"},
   "geometry": {"type": "Polygon", "coordinates": [[[50, 24], [52, 24], [52, 26], [50, 26], [50, 24]]]}},
  {"type": "Feature", "properties": {"name": "Chad"},
   "geometry": {"type": "Polygon", "coordinates": [[[14, 8], [24, 8], [24, 23], [14, 23], [14, 8]]]}}
]}`

func TestRenderer_Choropleth(t *testing.T) {
	g, err := gazetteer.Load(strings.NewReader(square))
	require.NoError(t, err)

	c := views.Choropleth{Year: 2020, Min: 0.1, Max: 35.6, Areas: []views.Area{
		{Country: "Qatar", Value: 35.6, Valid: true},
		{Country: "Chad", Value: 0.1, Valid: true},
		{Country: "World", Value: 4.7, Valid: true},
		{Country: "Kosovo"},
	}}
	spec := Spec{Kind: KindChoropleth, X: dataset.ColCountry, Color: dataset.ColCO2, Scale: "YlOrRd", Title: "map"}

	var buf bytes.Buffer
	unmatched, err := NewRenderer(g).Choropleth(&buf, spec, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"World", "Kosovo"}, unmatched)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderer_ChoroplethNeedsGazetteer(t *testing.T) {
	_, err := NewRenderer(nil).Choropleth(&bytes.Buffer{}, Spec{Scale: "YlOrRd"}, views.Choropleth{})
	assert.ErrorIs(t, err, ErrNoGazetteer)
}

func TestSpecString(t *testing.T) {
	s := Spec{Kind: KindBar, X: "a", Y: "b", Title: "t"}
	assert.Equal(t, `bar(a, b) "t"`, s.String())
}
