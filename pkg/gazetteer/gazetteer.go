// Package gazetteer maps country names to outline polygons read from a
// Natural Earth style GeoJSON FeatureCollection.
package gazetteer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"co2dash/pkg/sentinel"
)

// nameProperties are the feature properties a country can be looked up by.
var nameProperties = []string{"name", "name_en", "name_long", "admin", "NAME", "ADMIN", "NAME_EN", "NAME_LONG"}

// Ring is a closed outline in (lon, lat) order.
type Ring [][2]float64

// Gazetteer is safe for concurrent reads.
type Gazetteer struct {
	shapes   map[string][]Ring
	features [][]Ring
}

// LoadFile reads a GeoJSON file from disk.
func LoadFile(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: gazetteer: %w", sentinel.ErrDataUnavailable, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a FeatureCollection. Features without a name or without
// polygon geometry are skipped.
func Load(r io.Reader) (*Gazetteer, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: gazetteer: %w", sentinel.ErrDataUnavailable, err)
	}

	g := &Gazetteer{shapes: make(map[string][]Ring)}
	for _, f := range fc.Features {
		rings := outline(f.Geometry)
		if len(rings) == 0 {
			continue
		}
		named := false
		for _, prop := range nameProperties {
			name, ok := f.Properties[prop].(string)
			if !ok || strings.TrimSpace(name) == "" {
				continue
			}
			k := key(name)
			if _, dup := g.shapes[k]; !dup {
				g.shapes[k] = rings
			}
			named = true
		}
		if named {
			g.features = append(g.features, rings)
		}
	}
	return g, nil
}

// Rings returns the outlines of country, matched case-insensitively.
func (g *Gazetteer) Rings(country string) ([]Ring, bool) {
	rings, ok := g.shapes[key(country)]
	return rings, ok
}

// Len reports how many features were loaded.
func (g *Gazetteer) Len() int { return len(g.features) }

// All returns the outlines of every loaded feature, in file order.
func (g *Gazetteer) All() [][]Ring { return g.features }

func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func outline(t geom.T) []Ring {
	switch g := t.(type) {
	case *geom.Polygon:
		return polygonRings(g)
	case *geom.MultiPolygon:
		var rings []Ring
		for i := 0; i < g.NumPolygons(); i++ {
			rings = append(rings, polygonRings(g.Polygon(i))...)
		}
		return rings
	}
	return nil
}

// polygonRings keeps only the exterior ring; holes are not shaded.
func polygonRings(p *geom.Polygon) []Ring {
	if p.NumLinearRings() == 0 {
		return nil
	}
	coords := p.LinearRing(0).Coords()
	ring := make(Ring, len(coords))
	for i, c := range coords {
		ring[i] = [2]float64{c.X(), c.Y()}
	}
	return []Ring{ring}
}
