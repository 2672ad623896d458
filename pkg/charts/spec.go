// Package charts turns declarative chart specs and view data into PNG
// figures with gonum/plot.
package charts

import "fmt"

// Kind is the chart geometry.
type Kind string

const (
	KindChoropleth Kind = "choropleth"
	KindBar        Kind = "bar"
	KindScatter    Kind = "scatter"
)

// Spec declares what a panel wants drawn; the renderer decides how.
type Spec struct {
	Kind Kind
	// X and Y name the fields on each axis. For a choropleth X is the
	// location field.
	X, Y string
	// Color names the field mapped onto Scale.
	Color string
	// Text names the field used to label points.
	Text string
	// Scale is a ColorBrewer sequential scale name, e.g. "YlOrRd".
	Scale      string
	Horizontal bool
	Trendline  bool
	Title      string
}

func (s Spec) String() string {
	return fmt.Sprintf("%s(%s, %s) %q", s.Kind, s.X, s.Y, s.Title)
}
