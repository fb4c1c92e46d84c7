// Package gazetteer geocodes cities from a static table, for offline
// deployments and tests.
package gazetteer

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// Gazetteer maps normalized city keys to coordinates.
type Gazetteer struct {
	cities map[string]geo.Point
}

// New builds a gazetteer from city names. Names are normalized with
// geo.CityKey; invalid points are rejected.
func New(cities map[string]geo.Point) (*Gazetteer, error) {
	g := &Gazetteer{cities: make(map[string]geo.Point, len(cities))}
	for name, p := range cities {
		key := geo.CityKey(name)
		if key == "" {
			return nil, fmt.Errorf("gazetteer: empty city name")
		}
		if !p.Valid() {
			return nil, fmt.Errorf("gazetteer: %q: coordinates out of range", name)
		}
		if _, dup := g.cities[key]; dup {
			return nil, fmt.Errorf("gazetteer: duplicate city %q", name)
		}
		g.cities[key] = p
	}
	return g, nil
}

// Parse reads a YAML document of the form
//
//	budapest: {lat: 47.4979, lon: 19.0402}
func Parse(data []byte) (*Gazetteer, error) {
	var raw map[string]geo.Point
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("gazetteer: parse: %w", err)
	}
	return New(raw)
}

// Load reads a gazetteer file.
func Load(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("gazetteer: read %s: %w", path, err)
	}
	return Parse(data)
}

// Len returns the number of known cities.
func (g *Gazetteer) Len() int { return len(g.cities) }

// Geocode implements the geodistance Geocoder port.
func (g *Gazetteer) Geocode(ctx context.Context, city string) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, fmt.Errorf("%w: %w", domain.ErrGeocoderUnavailable, err)
	}
	p, ok := g.cities[geo.CityKey(city)]
	if !ok {
		return geo.Point{}, fmt.Errorf("%w: %q", domain.ErrCityNotFound, city)
	}
	return p, nil
}
