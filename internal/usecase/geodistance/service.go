package geodistance

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

const (
	// DefaultConcurrency bounds parallel city resolution in a batch.
	DefaultConcurrency = 8
	// DefaultGeocodeTimeout bounds a single geocoder call.
	DefaultGeocodeTimeout = 5 * time.Second
)

// Cache label values.
const (
	cacheCoordinates = "coordinates"
	cacheDistance    = "distance"
)

// Service resolves cities and distances, caching both. It never fails a
// caller: anything it cannot resolve is reported as unknown.
type Service struct {
	coords   CoordinateCache
	pairs    DistanceCache
	geocoder Geocoder
	logger   *zap.Logger

	concurrency    int
	geocodeTimeout time.Duration
	cacheTotal     *prometheus.CounterVec
	geocodeTotal   *prometheus.CounterVec

	inflight singleflight.Group
}

// New creates a geodistance service.
func New(coords CoordinateCache, pairs DistanceCache, geocoder Geocoder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		coords:         coords,
		pairs:          pairs,
		geocoder:       geocoder,
		logger:         logger,
		concurrency:    DefaultConcurrency,
		geocodeTimeout: DefaultGeocodeTimeout,
	}
}

// WithConcurrency sets the number of cities a batch resolves in parallel.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithGeocodeTimeout bounds each geocoder call.
func (s *Service) WithGeocodeTimeout(d time.Duration) *Service {
	if d > 0 {
		s.geocodeTimeout = d
	}
	return s
}

// WithMetrics sets the counters. cacheTotal has labels "cache" and
// "result" ("hit"/"miss"/"error"); geocodeTotal has label "status".
func (s *Service) WithMetrics(cacheTotal, geocodeTotal *prometheus.CounterVec) *Service {
	s.cacheTotal = cacheTotal
	s.geocodeTotal = geocodeTotal
	return s
}

// ResolveCoordinates returns the coordinates of city from the cache, or
// geocodes and caches them. Concurrent misses on the same city share
// one geocoder call.
func (s *Service) ResolveCoordinates(ctx context.Context, city string) (geo.Point, bool) {
	key := geo.CityKey(city)
	if key == "" {
		return geo.Point{}, false
	}

	p, err := s.coords.GetCoordinates(ctx, key)
	switch {
	case err == nil:
		s.incCache(cacheCoordinates, "hit")
		return p, true
	case !errors.Is(err, domain.ErrCacheMiss):
		s.incCache(cacheCoordinates, "error")
		s.logger.Warn("Failed to read cached coordinates", zap.String("city", key), zap.Error(err))
		return geo.Point{}, false
	}
	s.incCache(cacheCoordinates, "miss")

	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		return s.geocode(ctx, key)
	})
	if err != nil {
		return geo.Point{}, false
	}
	return v.(geo.Point), true
}

func (s *Service) geocode(ctx context.Context, key string) (geo.Point, error) {
	gctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	p, err := s.geocoder.Geocode(gctx, key)
	if err == nil && !p.Valid() {
		err = domain.ErrCityNotFound
	}
	if err != nil {
		if errors.Is(err, domain.ErrCityNotFound) {
			s.incGeocode("not_found")
			s.logger.Info("City not found", zap.String("city", key))
		} else {
			s.incGeocode("error")
			s.logger.Warn("Failed to geocode city", zap.String("city", key), zap.Error(err))
		}
		return geo.Point{}, err
	}
	s.incGeocode("ok")

	if err := s.coords.PutCoordinates(ctx, key, p); err != nil {
		s.logger.Warn("Failed to cache coordinates", zap.String("city", key), zap.Error(err))
	}
	return p, nil
}

// Distance returns the great-circle distance in km between two cities.
// The same city is 0 once it resolves; the pair cache is not consulted.
func (s *Service) Distance(ctx context.Context, a, b string) (float64, bool) {
	pair := geo.NewPair(a, b)
	if pair.A == "" || pair.B == "" {
		return 0, false
	}
	if pair.Same() {
		_, ok := s.ResolveCoordinates(ctx, pair.A)
		return 0, ok
	}

	km, err := s.pairs.GetDistance(ctx, pair)
	switch {
	case err == nil:
		s.incCache(cacheDistance, "hit")
		return km, true
	case !errors.Is(err, domain.ErrCacheMiss):
		s.incCache(cacheDistance, "error")
		s.logger.Warn("Failed to read cached distance",
			zap.String("from", pair.A), zap.String("to", pair.B), zap.Error(err))
		return 0, false
	}
	s.incCache(cacheDistance, "miss")

	pa, ok := s.ResolveCoordinates(ctx, pair.A)
	if !ok {
		return 0, false
	}
	pb, ok := s.ResolveCoordinates(ctx, pair.B)
	if !ok {
		return 0, false
	}

	km = geo.Haversine(pa, pb)
	if err := s.pairs.PutDistance(ctx, pair, km); err != nil {
		s.logger.Warn("Failed to cache distance",
			zap.String("from", pair.A), zap.String("to", pair.B), zap.Error(err))
	}
	return km, true
}

// BatchDistance returns the distance from reference to each city, in
// input order. Empty or unresolved cities are nil. Each distinct city is
// resolved once.
func (s *Service) BatchDistance(ctx context.Context, reference string, cities []string) []*float64 {
	out := make([]*float64, len(cities))
	if geo.CityKey(reference) == "" || len(cities) == 0 {
		return out
	}

	positions := make(map[string][]int)
	var unique []string
	for i, c := range cities {
		key := geo.CityKey(c)
		if key == "" {
			continue
		}
		if _, ok := positions[key]; !ok {
			unique = append(unique, key)
		}
		positions[key] = append(positions[key], i)
	}

	resolved := make([]*float64, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, key := range unique {
		g.Go(func() error {
			if km, ok := s.Distance(gctx, reference, key); ok {
				resolved[i] = &km
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, key := range unique {
		if resolved[i] == nil {
			continue
		}
		for _, pos := range positions[key] {
			km := *resolved[i]
			out[pos] = &km
		}
	}
	return out
}

func (s *Service) incCache(cache, result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(cache, result).Inc()
	}
}

func (s *Service) incGeocode(status string) {
	if s.geocodeTotal != nil {
		s.geocodeTotal.WithLabelValues(status).Inc()
	}
}
