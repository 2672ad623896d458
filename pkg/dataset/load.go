package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// missingMarkers are the cell values read as "no observation".
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

var errNotFinite = errors.New("not a finite number")

// Option adjusts how column names are resolved.
type Option func(*namer)

// WithAliases renames normalized columns before the canonical mapping, e.g.
// {"entity": "country"} for files that label countries as entities.
func WithAliases(aliases map[string]string) Option {
	return func(n *namer) {
		if n.aliases == nil {
			n.aliases = make(map[string]string, len(aliases))
		}
		for from, to := range aliases {
			n.aliases[NormalizeName(from)] = to
		}
	}
}

// Load reads the CSV file at path, decoding it with the given encoding hint
// (UTF-8 when empty).
func Load(path, encodingHint string, opts ...Option) (*Dataset, error) {
	enc, err := lookupEncoding(encodingHint)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailableErr(err, "read %s", path)
	}
	text, err := decode(raw, enc, encodingHint)
	if err != nil {
		return nil, err
	}
	ds, err := Read(strings.NewReader(text), opts...)
	if err != nil {
		return nil, err
	}
	ds.path = path
	ds.encoding = EncodingName(encodingHint)
	return ds, nil
}

// Read parses already decoded CSV text with a header row.
func Read(r io.Reader, opts ...Option) (*Dataset, error) {
	var n namer
	for _, opt := range opts {
		opt(&n)
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, unavailable("no header row")
	}
	if err != nil {
		return nil, unavailableErr(err, "parse header")
	}

	columns, err := resolveColumns(header, n)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, unavailableErr(err, "parse rows")
	}

	numeric := numericKinds(columns, rows)
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(i, row, columns, numeric)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &Dataset{encoding: DefaultEncoding, columns: columns, records: records}, nil
}

func resolveColumns(header []string, n namer) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	var dups []string
	for i, h := range header {
		c := n.canonical(h)
		if seen[c] {
			dups = append(dups, c)
		}
		seen[c] = true
		columns[i] = c
	}

	var missing []string
	for _, c := range requiredColumns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 || len(dups) > 0 {
		return nil, &SchemaError{Missing: missing, Duplicate: dups, Columns: columns}
	}
	return columns, nil
}

// numericKinds decides which pass-through columns hold numbers: those where
// every present cell parses as a float.
func numericKinds(columns []string, rows [][]string) []bool {
	numeric := make([]bool, len(columns))
	for c, col := range columns {
		switch {
		case col == ColCountry || col == ColYear:
			continue
		case numericColumns[col]:
			numeric[c] = true
			continue
		}
		numeric[c] = true
		for _, row := range rows {
			cell := strings.TrimSpace(row[c])
			if missingMarkers[cell] {
				continue
			}
			if _, err := parseMeasurement(cell); err != nil {
				numeric[c] = false
				break
			}
		}
	}
	return numeric
}

func parseRow(i int, row, columns []string, numeric []bool) (Record, error) {
	line := i + 2
	rec := Record{Index: i, values: make(map[string]float64)}
	for c, col := range columns {
		cell := strings.TrimSpace(row[c])
		switch {
		case col == ColCountry:
			if missingMarkers[cell] {
				return Record{}, unavailable("line %d: empty %s", line, ColCountry)
			}
			rec.Country = cell
		case col == ColYear:
			year, err := parseYear(cell)
			if err != nil {
				return Record{}, unavailableErr(err, "line %d: %s %q", line, ColYear, cell)
			}
			rec.Year = year
		case missingMarkers[cell]:
		case numeric[c]:
			v, err := parseMeasurement(cell)
			if err != nil {
				return Record{}, unavailableErr(err, "line %d: %s %q", line, col, cell)
			}
			rec.values[col] = v
		default:
			if rec.text == nil {
				rec.text = make(map[string]string)
			}
			rec.text[col] = cell
		}
	}
	return rec, nil
}

// parseMeasurement rejects the infinities and NaN spellings ParseFloat
// accepts but the missing markers do not cover.
func parseMeasurement(cell string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// parseYear accepts integral years, including the "2020.0" form spreadsheets
// produce for numeric columns.
func parseYear(cell string) (int, error) {
	if y, err := strconv.Atoi(cell); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}
