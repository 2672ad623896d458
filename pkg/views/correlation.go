package views

import (
	"fmt"
	"slices"

	"co2dash/pkg/dataset"
	"co2dash/pkg/sentinel"
)

// Covariates are the selectable scatter axes.
var Covariates = []string{dataset.ColCO2, dataset.ColGDP, dataset.ColPopulation}

// Default scatter axes.
const (
	DefaultX = dataset.ColGDP
	DefaultY = dataset.ColCO2
)

// Point is one labelled scatter observation.
type Point struct {
	X, Y  float64
	Label string
}

// Scatter is the year subset projected onto two covariates.
type Scatter struct {
	Year   int
	X, Y   string
	Points []Point
}

func (s Scatter) XS() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return xs
}

func (s Scatter) YS() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// ValidCovariate reports whether name is one of Covariates, matched exactly.
func ValidCovariate(name string) bool {
	return slices.Contains(Covariates, name)
}

// Correlation projects the records of year onto (x, y, country). Rows
// missing either value are left out.
func Correlation(ds *dataset.Dataset, year int, x, y string) (Scatter, error) {
	for _, axis := range []string{x, y} {
		if !ValidCovariate(axis) {
			return Scatter{}, fmt.Errorf("%w: %q is not one of %v", sentinel.ErrInvalidSelection, axis, Covariates)
		}
		if !ds.HasColumn(axis) {
			return Scatter{}, fmt.Errorf("%w: column %q is not in the dataset", sentinel.ErrInvalidSelection, axis)
		}
	}
	records, err := FilterYear(ds, year)
	if err != nil {
		return Scatter{}, err
	}

	s := Scatter{Year: year, X: x, Y: y}
	for _, r := range records {
		xv, okX := r.Value(x)
		yv, okY := r.Value(y)
		if okX && okY {
			s.Points = append(s.Points, Point{X: xv, Y: yv, Label: r.Country})
		}
	}
	return s, nil
}
