package geodistance

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// CoordinateCache stores resolved city coordinates by city key.
// A missing entry is reported as domain.ErrCacheMiss.
type CoordinateCache interface {
	GetCoordinates(ctx context.Context, cityKey string) (geo.Point, error)
	PutCoordinates(ctx context.Context, cityKey string, p geo.Point) error
}

// DistanceCache stores computed distances by canonical city pair.
// A missing entry is reported as domain.ErrCacheMiss.
type DistanceCache interface {
	GetDistance(ctx context.Context, pair geo.Pair) (float64, error)
	PutDistance(ctx context.Context, pair geo.Pair, km float64) error
}

// Geocoder resolves a city name to coordinates.
// An unknown city is reported as domain.ErrCityNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (geo.Point, error)
}
