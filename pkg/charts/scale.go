package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette/brewer"
)

// scaleClasses is the largest class count every sequential brewer scale offers.
const scaleClasses = 9

// ColorScale maps a value range onto a ColorBrewer scale, interpolating
// between neighbouring classes.
type ColorScale struct {
	colors   []color.Color
	min, max float64
}

// NewColorScale builds the named scale over [min, max].
func NewColorScale(name string, min, max float64) (*ColorScale, error) {
	p, err := brewer.GetPalette(brewer.TypeSequential, name, scaleClasses)
	if err != nil {
		return nil, fmt.Errorf("color scale %q: %w", name, err)
	}
	return &ColorScale{colors: p.Colors(), min: min, max: max}, nil
}

// At returns the color for v. Values outside the range are clamped.
func (s *ColorScale) At(v float64) color.Color {
	n := len(s.colors)
	if n == 0 {
		return color.Black
	}
	t := 0.0
	if s.max > s.min {
		t = (v - s.min) / (s.max - s.min)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(n-1)
	i := int(math.Floor(pos))
	if i >= n-1 {
		return s.colors[n-1]
	}
	return lerp(s.colors[i], s.colors[i+1], pos-float64(i))
}

// Stops returns k evenly spaced values across the range, for legends.
func (s *ColorScale) Stops(k int) []float64 {
	if k < 2 || s.max <= s.min {
		return []float64{s.min}
	}
	stops := make([]float64, k)
	for i := range stops {
		stops[i] = s.min + (s.max-s.min)*float64(i)/float64(k-1)
	}
	return stops
}

func lerp(a, b color.Color, t float64) color.Color {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	mix := func(x, y uint32) uint8 {
		return uint8((float64(x) + (float64(y)-float64(x))*t) / 257)
	}
	return color.RGBA{R: mix(ar, br), G: mix(ag, bg), B: mix(ab, bb), A: mix(aa, ba)}
}
