package charts

import (
	"gonum.org/v1/gonum/stat"
)

// Trend is an ordinary least squares fit y = Alpha + Beta*x.
type Trend struct {
	Alpha, Beta float64
	RSquared    float64
	N           int
}

func (t Trend) At(x float64) float64 { return t.Alpha + t.Beta*x }

// Fit regresses ys on xs. It reports false when fewer than two distinct x
// values make the slope undefined.
func Fit(xs, ys []float64) (Trend, bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return Trend{}, false
	}
	distinct := false
	for _, x := range xs[1:] {
		if x != xs[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return Trend{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Trend{
		Alpha:    alpha,
		Beta:     beta,
		RSquared: stat.RSquared(xs, ys, nil, alpha, beta),
		N:        len(xs),
	}, true
}
