package dataset

import "strings"

// Canonical display identifiers. Every other normalized column name passes
// through unchanged, so the covariates keep their lowercase form.
const (
	ColCountry    = "Country"
	ColYear       = "Year"
	ColCO2        = "CO2_per_Capita"
	ColGDP        = "gdp_per_capita"
	ColPopulation = "population"
)

// canonicalNames maps a normalized column name to its display identifier.
var canonicalNames = map[string]string{
	"country":        ColCountry,
	"year":           ColYear,
	"co2_per_capita": ColCO2,
}

// requiredColumns must all be present after renaming.
var requiredColumns = []string{ColCountry, ColYear, ColCO2}

// numericColumns are always parsed as numbers; a cell that is neither a
// number nor a missing marker makes the whole file unusable.
var numericColumns = map[string]bool{
	ColCO2:        true,
	ColGDP:        true,
	ColPopulation: true,
}

// NormalizeName trims a column name, lowercases it and joins the remaining
// whitespace-separated words with single underscores.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

// CanonicalName normalizes name and maps the recognized columns to their
// display identifiers.
func CanonicalName(name string) string {
	return namer{}.canonical(name)
}

type namer struct {
	aliases map[string]string
}

func (n namer) canonical(name string) string {
	key := NormalizeName(name)
	if alias, ok := n.aliases[key]; ok {
		key = NormalizeName(alias)
	}
	if display, ok := canonicalNames[key]; ok {
		return display
	}
	return key
}
