package health

import "context"

// Pinger checks availability of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GeocoderChecker checks geocoding provider availability.
type GeocoderChecker interface {
	HealthCheck(ctx context.Context) error
}
