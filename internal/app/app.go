// Package app assembles the talentdex services from configuration. Both
// the server and the ops CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/config"
	"github.com/kailas-cloud/talentdex/internal/db"
	dbBadger "github.com/kailas-cloud/talentdex/internal/db/badger"
	dbMemory "github.com/kailas-cloud/talentdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/talentdex/internal/db/redis"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
	"github.com/kailas-cloud/talentdex/internal/metrics"
	"github.com/kailas-cloud/talentdex/internal/repository/geocache"
	"github.com/kailas-cloud/talentdex/internal/repository/roster"
	"github.com/kailas-cloud/talentdex/internal/transport/gazetteer"
	"github.com/kailas-cloud/talentdex/internal/transport/nominatim"
	"github.com/kailas-cloud/talentdex/internal/usecase/geodistance"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// Roster is a roster source that can be health-checked.
type Roster interface {
	Snapshot(ctx context.Context) (professional.Snapshot, error)
	Ping(ctx context.Context) error
}

// App holds the wired services and the resources they own.
type App struct {
	Store    db.Store
	Roster   Roster
	GeoCache *geocache.Cache
	Geo      *geodistance.Service
	Search   *searchuc.Service
	Health   *healthuc.Service

	closers []func()
}

// Options tunes assembly.
type Options struct {
	// Metrics registers the engine collectors and wires them into the services.
	Metrics bool
}

// New opens the cache store, roster and geocoder named by cfg and wires
// the services over them. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Store, err = OpenStore(&cfg.Cache, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Store.Close)

	readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
	if err = a.Store.WaitForReady(ctx, readiness); err != nil {
		return nil, fmt.Errorf("cache store not ready: %w", err)
	}

	var closeRoster func()
	a.Roster, closeRoster, err = OpenRoster(ctx, &cfg.Roster)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRoster)

	geocoder, err := NewGeocoder(&cfg.Geocoder, logger)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	a.GeoCache = geocache.New(a.Store, cfg.Cache.KeyPrefix, ttl)

	a.Geo = geodistance.New(a.GeoCache, a.GeoCache, geocoder, logger.Named("geodistance")).
		WithConcurrency(cfg.Ranking.BatchConcurrency).
		WithGeocodeTimeout(time.Duration(cfg.Geocoder.TimeoutMs) * time.Millisecond)

	a.Search = searchuc.New(a.Roster, a.Geo, logger.Named("search")).
		WithMatcher(cfg.MatcherOptions()).
		WithLanguage(cfg.CollationLanguage())

	if opts.Metrics {
		metrics.RegisterEngineMetrics()
		a.Geo.WithMetrics(metrics.GeoCacheTotal, metrics.GeocodeRequestsTotal)
		a.Search.WithDuration(metrics.SearchDuration).WithIndexSize(metrics.RosterRecords)
	}

	var checker healthuc.GeocoderChecker
	if hc, ok := geocoder.(healthuc.GeocoderChecker); ok {
		checker = hc
	}
	a.Health = healthuc.New(a.Store, a.Roster, checker)

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// OpenStore creates the cache store for the configured driver.
// Valkey speaks the Redis protocol, so both use the rueidis store.
func OpenStore(cfg *config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		return s, nil
	case "badger":
		s, err := dbBadger.Open(dbBadger.Config{Path: cfg.Path, InMemory: cfg.Path == ""}, logger.Named("badger"))
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		return s, nil
	case "memory":
		return dbMemory.New(), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// OpenRoster creates the roster source for the configured driver. The
// returned func releases it.
func OpenRoster(ctx context.Context, cfg *config.RosterConfig) (Roster, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pg, err := roster.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect roster database: %w", err)
		}
		return pg, pg.Close, nil
	case "file":
		f := roster.NewFile(cfg.Path)
		if err := f.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("open roster file: %w", err)
		}
		return f, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown roster driver %q", cfg.Driver)
	}
}

// NewGeocoder creates the configured geocoding provider.
func NewGeocoder(cfg *config.GeocoderConfig, logger *zap.Logger) (geodistance.Geocoder, error) {
	switch cfg.Provider {
	case "nominatim":
		return nominatim.New(&nominatim.Config{
			BaseURL:   cfg.BaseURL,
			UserAgent: cfg.UserAgent,
			Email:     cfg.Email,
			Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
			Breaker: nominatim.BreakerConfig{
				MaxRequests:      cfg.Breaker.MaxRequests,
				Interval:         time.Duration(cfg.Breaker.IntervalSec) * time.Second,
				Timeout:          time.Duration(cfg.Breaker.TimeoutSec) * time.Second,
				MinRequests:      cfg.Breaker.MinRequests,
				ReadyToTripRatio: cfg.Breaker.FailureRatio,
			},
			Logger: logger.Named("nominatim"),
		}), nil
	case "static":
		g, err := gazetteer.Load(cfg.GazetteerPath)
		if err != nil {
			return nil, fmt.Errorf("load gazetteer: %w", err)
		}
		return g, nil
	default:
		return nil, errors.New("unknown geocoder provider " + cfg.Provider)
	}
}
