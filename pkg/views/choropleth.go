package views

import (
	"math"

	"co2dash/pkg/dataset"
)

// Area is one country's shading on the map.
type Area struct {
	Country string
	Value   float64
	Valid   bool
}

// Choropleth holds the per-country values of one year and their range.
type Choropleth struct {
	Year     int
	Areas    []Area
	Min, Max float64
}

// Map returns the per capita emissions of every country observed in year.
// Min and Max cover the countries that have a measurement.
func Map(ds *dataset.Dataset, year int) (Choropleth, error) {
	records, err := FilterYear(ds, year)
	if err != nil {
		return Choropleth{}, err
	}

	c := Choropleth{Year: year, Min: math.Inf(1), Max: math.Inf(-1)}
	for _, r := range records {
		v, ok := r.CO2()
		c.Areas = append(c.Areas, Area{Country: r.Country, Value: v, Valid: ok})
		if ok {
			c.Min = math.Min(c.Min, v)
			c.Max = math.Max(c.Max, v)
		}
	}
	if math.IsInf(c.Min, 1) {
		c.Min, c.Max = 0, 0
	}
	return c, nil
}
