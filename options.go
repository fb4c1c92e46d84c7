package talentdex

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RosterSource supplies roster snapshots.
type RosterSource interface {
	Snapshot(ctx context.Context) (Roster, error)
}

// Geocoder resolves a city name. The name arrives trimmed and case-folded.
// Unknown cities return ErrCityNotFound.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Coordinates, error)
}

// CacheStore is a byte key-value store for geocoding results.
// Get returns ErrKeyNotFound for a missing key.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	roster     RosterSource
	rosterPath string

	geocoder     Geocoder
	gazetteer    map[string]Coordinates
	nominatimURL string
	nominatimUA  string

	store     CacheStore
	driver    string // "redis", "valkey" or "badger"
	addrs     []string
	password  string
	path      string
	keyPrefix string
	cacheTTL  time.Duration

	threshold     float64
	minTermLength int
	language      string
	concurrency   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRoster sets the roster source. Required unless WithProfessionals is used.
func WithRoster(r RosterSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.roster = r
	})
}

// WithProfessionals searches a fixed roster.
func WithProfessionals(pros []Professional) Option {
	return optionFunc(func(c *clientConfig) {
		c.roster = staticRoster{pros: pros}
	})
}

// WithRosterFile reads the roster from a YAML file, re-parsed when it
// changes on disk.
func WithRosterFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rosterPath = path
	})
}

// WithGeocoder sets the geocoding provider used for distance ranking.
func WithGeocoder(g Geocoder) Option {
	return optionFunc(func(c *clientConfig) {
		c.geocoder = g
	})
}

// WithGazetteer geocodes from a fixed city table. Names are matched
// case-insensitively.
func WithGazetteer(cities map[string]Coordinates) Option {
	return optionFunc(func(c *clientConfig) {
		c.gazetteer = cities
	})
}

// WithNominatim geocodes with a Nominatim search API. An empty baseURL
// means the public OpenStreetMap instance, whose usage policy requires a
// descriptive userAgent.
func WithNominatim(baseURL, userAgent string) Option {
	return optionFunc(func(c *clientConfig) {
		if userAgent == "" {
			userAgent = "talentdex"
		}
		c.nominatimURL = baseURL
		c.nominatimUA = userAgent
	})
}

// WithCacheStore caches geocoding results in s. Defaults to process memory.
func WithCacheStore(s CacheStore) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = s
	})
}

// WithValkey caches geocoding results in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches geocoding results in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBadger caches geocoding results in an embedded BadgerDB at path.
func WithBadger(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.path = path
	})
}

// WithCacheTTL expires cached coordinates and distances. Zero keeps them.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithKeyPrefix namespaces cache keys. Default: "talentdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMatcher tunes fuzzy matching: a term matches when its score is at
// most threshold, and terms shorter than minTermLength runes are ignored.
// Defaults: 0.3 and 2. A threshold of 0 accepts exact matches only; a
// negative one keeps the default.
func WithMatcher(threshold float64, minTermLength int) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = threshold
		c.minTermLength = minTermLength
	})
}

// WithLanguage sets the BCP 47 collation language for name ordering.
func WithLanguage(tag string) Option {
	return optionFunc(func(c *clientConfig) {
		c.language = tag
	})
}

// WithConcurrency bounds parallel city resolution. Default: 8.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
