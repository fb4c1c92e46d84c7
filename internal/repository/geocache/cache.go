// Package geocache stores city coordinates and pair distances in the
// key-value cache store.
package geocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// store is the consumer interface for the geo cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache implements the coordinate and distance caches over one store.
type Cache struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a geo cache. Keys are namespaced by prefix; ttl of zero
// keeps entries until evicted.
func New(s store, prefix string, ttl time.Duration) *Cache {
	return &Cache{store: s, prefix: prefix, ttl: ttl}
}

// GetCoordinates returns cached coordinates for a city key.
func (c *Cache) GetCoordinates(ctx context.Context, cityKey string) (geo.Point, error) {
	data, err := c.store.Get(ctx, c.coordsKey(cityKey))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return geo.Point{}, domain.ErrCacheMiss
		}
		return geo.Point{}, fmt.Errorf("get coordinates: %w", err)
	}

	var p geo.Point
	if err := json.Unmarshal(data, &p); err != nil || !p.Valid() {
		// Corrupt entries read as misses so the next write replaces them.
		return geo.Point{}, fmt.Errorf("%w: corrupt coordinates for %q", domain.ErrCacheMiss, cityKey)
	}
	return p, nil
}

// PutCoordinates caches coordinates for a city key.
func (c *Cache) PutCoordinates(ctx context.Context, cityKey string, p geo.Point) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal coordinates: %w", err)
	}
	if err := c.store.SetWithTTL(ctx, c.coordsKey(cityKey), data, c.ttl); err != nil {
		return fmt.Errorf("put coordinates: %w", err)
	}
	return nil
}

// EvictCoordinates drops the cached coordinates of a city key.
func (c *Cache) EvictCoordinates(ctx context.Context, cityKey string) error {
	if err := c.store.Del(ctx, c.coordsKey(cityKey)); err != nil {
		return fmt.Errorf("evict coordinates: %w", err)
	}
	return nil
}

// GetDistance returns the cached distance in km for a canonical pair.
func (c *Cache) GetDistance(ctx context.Context, pair geo.Pair) (float64, error) {
	data, err := c.store.Get(ctx, c.distanceKey(pair))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, domain.ErrCacheMiss
		}
		return 0, fmt.Errorf("get distance: %w", err)
	}

	km, err := strconv.ParseFloat(string(data), 64)
	if err != nil || km < 0 {
		return 0, fmt.Errorf("%w: corrupt distance for %q", domain.ErrCacheMiss, pair.Key())
	}
	return km, nil
}

// PutDistance caches the distance in km for a canonical pair.
func (c *Cache) PutDistance(ctx context.Context, pair geo.Pair, km float64) error {
	data := strconv.FormatFloat(km, 'f', -1, 64)
	if err := c.store.SetWithTTL(ctx, c.distanceKey(pair), []byte(data), c.ttl); err != nil {
		return fmt.Errorf("put distance: %w", err)
	}
	return nil
}

func (c *Cache) coordsKey(cityKey string) string {
	return c.prefix + "geo:coords:" + cityKey
}

func (c *Cache) distanceKey(pair geo.Pair) string {
	return c.prefix + "geo:dist:" + pair.Key()
}
