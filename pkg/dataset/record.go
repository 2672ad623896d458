package dataset

import "slices"

// Record is one (country, year) observation.
type Record struct {
	// Index is the row position in the source file, starting at 0.
	Index   int
	Country string
	Year    int

	values map[string]float64
	text   map[string]string
}

// NewRecord builds a record from numeric values keyed by column identifier.
// Missing measurements are simply left out of values.
func NewRecord(index int, country string, year int, values map[string]float64) Record {
	r := Record{Index: index, Country: country, Year: year, values: make(map[string]float64, len(values))}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Value returns the numeric value of column col and whether it was present.
func (r Record) Value(col string) (float64, bool) {
	switch col {
	case ColYear:
		return float64(r.Year), true
	}
	v, ok := r.values[col]
	return v, ok
}

// CO2 returns the per capita emissions in tonnes.
func (r Record) CO2() (float64, bool) { return r.Value(ColCO2) }

// Text returns a non-numeric pass-through cell.
func (r Record) Text(col string) (string, bool) {
	if col == ColCountry {
		return r.Country, true
	}
	s, ok := r.text[col]
	return s, ok
}

// Dataset is the loaded, normalized table. It is never modified after
// construction; accessors hand out copies.
type Dataset struct {
	path     string
	encoding string
	columns  []string
	records  []Record
}

// New assembles a dataset from already typed records, in the given order.
func New(columns []string, records []Record) *Dataset {
	return &Dataset{columns: slices.Clone(columns), records: slices.Clone(records)}
}

func (d *Dataset) Path() string     { return d.path }
func (d *Dataset) Encoding() string { return d.encoding }
func (d *Dataset) Len() int         { return len(d.records) }

func (d *Dataset) Columns() []string { return slices.Clone(d.columns) }

func (d *Dataset) HasColumn(col string) bool { return slices.Contains(d.columns, col) }

func (d *Dataset) Records() []Record { return slices.Clone(d.records) }

// Select returns the records for which keep reports true, in source order.
func (d *Dataset) Select(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
