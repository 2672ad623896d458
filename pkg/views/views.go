// Package views derives the filtered and ranked subsets each dashboard panel
// charts. Views only read the dataset; every result is a fresh slice.
package views

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"co2dash/pkg/dataset"
	"co2dash/pkg/sentinel"
)

// TopCount is the length of the emissions ranking.
const TopCount = 10

// Years returns the distinct years in the dataset, latest first.
func Years(ds *dataset.Dataset) []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range ds.Records() {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })
	return years
}

// FilterYear returns the records observed in year, in source order.
func FilterYear(ds *dataset.Dataset, year int) ([]dataset.Record, error) {
	out := ds.Select(func(r dataset.Record) bool { return r.Year == year })
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: year %d is not in the dataset", sentinel.ErrInvalidSelection, year)
	}
	return out, nil
}

// TopN ranks records by per capita emissions, highest first, and keeps at
// most n. Equal values keep their source order. Records without a
// measurement are not ranked.
func TopN(records []dataset.Record, n int) []dataset.Record {
	if n <= 0 {
		return nil
	}
	ranked := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if v, ok := r.CO2(); ok && !math.IsNaN(v) {
			ranked = append(ranked, r)
		}
	}
	slices.SortStableFunc(ranked, func(a, b dataset.Record) int {
		va, _ := a.CO2()
		vb, _ := b.CO2()
		return cmp.Compare(vb, va)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Top returns the TopCount highest emitters in year.
func Top(ds *dataset.Dataset, year int) ([]dataset.Record, error) {
	records, err := FilterYear(ds, year)
	if err != nil {
		return nil, err
	}
	return TopN(records, TopCount), nil
}
