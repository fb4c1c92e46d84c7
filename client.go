package talentdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	dbBadger "github.com/kailas-cloud/talentdex/internal/db/badger"
	dbMemory "github.com/kailas-cloud/talentdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/talentdex/internal/db/redis"
	"github.com/kailas-cloud/talentdex/internal/domain/career"
	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/repository/geocache"
	"github.com/kailas-cloud/talentdex/internal/repository/roster"
	"github.com/kailas-cloud/talentdex/internal/transport/gazetteer"
	"github.com/kailas-cloud/talentdex/internal/transport/nominatim"
	"github.com/kailas-cloud/talentdex/internal/usecase/geodistance"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "talentdex:"
)

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Page, error)
}

type geoUseCase interface {
	ResolveCoordinates(ctx context.Context, city string) (geo.Point, bool)
	Distance(ctx context.Context, a, b string) (float64, bool)
	BatchDistance(ctx context.Context, reference string, cities []string) []*float64
}

// pinger is implemented by cache stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the talentdex SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	geoSvc    geoUseCase // nil without a geocoder
	probes    []pinger
	closers   []func()
	obs       *observer
}

// New creates a Client. A roster is required; everything else has a
// working default. Without a geocoder distance ranking degrades to
// alphabetical order.
func New(opts ...Option) (_ *Client, err error) {
	cfg := &clientConfig{
		keyPrefix:     defaultKeyPrefix,
		threshold:     fuzzy.DefaultThreshold,
		minTermLength: fuzzy.DefaultMinTermLength,
		concurrency:   geodistance.DefaultConcurrency,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	c := &Client{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	src, err := createRoster(cfg)
	if err != nil {
		return nil, err
	}
	if p, ok := src.(pinger); ok {
		c.probes = append(c.probes, p)
	}

	tag := language.Und
	if cfg.language != "" {
		if tag, err = language.Parse(cfg.language); err != nil {
			return nil, fmt.Errorf("talentdex: invalid language %q: %w", cfg.language, err)
		}
	}

	c.obs, err = newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var distances searchuc.DistanceResolver
	if geocoder, gerr := createGeocoder(cfg); gerr != nil {
		return nil, gerr
	} else if geocoder != nil {
		store, serr := c.createStore(cfg)
		if serr != nil {
			return nil, serr
		}
		gc := geocache.New(store, cfg.keyPrefix, cfg.cacheTTL)
		svc := geodistance.New(gc, gc, geocoder, zap.NewNop()).WithConcurrency(cfg.concurrency)
		c.geoSvc = svc
		distances = svc
	}

	c.searchSvc = searchuc.New(&rosterAdapter{src: src}, distances, zap.NewNop()).
		WithMatcher(fuzzy.Options{Threshold: cfg.threshold, MinTermLength: cfg.minTermLength}).
		WithLanguage(tag)

	return c, nil
}

func createRoster(cfg *clientConfig) (RosterSource, error) {
	switch {
	case cfg.roster != nil:
		return cfg.roster, nil
	case cfg.rosterPath != "":
		return &fileRoster{file: roster.NewFile(cfg.rosterPath)}, nil
	default:
		return nil, errors.New("talentdex: roster required (use WithRoster, WithProfessionals or WithRosterFile)")
	}
}

func createGeocoder(cfg *clientConfig) (geodistance.Geocoder, error) {
	switch {
	case cfg.geocoder != nil:
		return &geocoderAdapter{inner: cfg.geocoder}, nil
	case cfg.nominatimUA != "":
		return nominatim.New(&nominatim.Config{
			BaseURL:   cfg.nominatimURL,
			UserAgent: cfg.nominatimUA,
		}), nil
	case cfg.gazetteer != nil:
		cities := make(map[string]geo.Point, len(cfg.gazetteer))
		for name, p := range cfg.gazetteer {
			cities[name] = geo.Point{Lat: p.Lat, Lon: p.Lon}
		}
		g, err := gazetteer.New(cities)
		if err != nil {
			return nil, fmt.Errorf("talentdex: %w", err)
		}
		return g, nil
	default:
		return nil, nil
	}
}

// createStore opens the geocoding cache. A caller-supplied store is not
// closed by the client.
func (c *Client) createStore(cfg *clientConfig) (CacheStore, error) {
	if cfg.store != nil {
		if p, ok := cfg.store.(pinger); ok {
			c.probes = append(c.probes, p)
		}
		return cfg.store, nil
	}

	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("talentdex: create %s store: %w", cfg.driver, err)
		}
		c.closers = append(c.closers, s.Close)
		ctx, cancel := context.WithTimeout(context.Background(), defaultReadinessTimeout)
		defer cancel()
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return nil, fmt.Errorf("talentdex: cache store not ready: %w", err)
		}
		c.probes = append(c.probes, s)
		return s, nil
	case "badger":
		s, err := dbBadger.Open(dbBadger.Config{Path: cfg.path, InMemory: cfg.path == ""}, nil)
		if err != nil {
			return nil, fmt.Errorf("talentdex: open badger store: %w", err)
		}
		c.closers = append(c.closers, s.Close)
		c.probes = append(c.probes, s)
		return s, nil
	case "":
		s := dbMemory.New()
		c.closers = append(c.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("talentdex: unknown cache driver %q", cfg.driver)
	}
}

// Search filters the roster with q and returns one ranked page.
func (c *Client) Search(ctx context.Context, q SearchQuery) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	m, err := mode.Parse(string(q.Mode))
	if err != nil {
		return Page{}, err
	}
	req, err := request.New(queryFromGroups(q.Groups), m, q.Reference, q.Offset, q.Limit)
	if err != nil {
		return Page{}, err
	}
	page, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return Page{}, err
	}
	return pageFromDomain(page), nil
}

// DecodeCareer parses a stored career blob.
func (c *Client) DecodeCareer(kind CareerKind, blob string) (_ Career, err error) {
	start := time.Now()
	defer func() { c.obs.observe("decode_career", start, err) }()

	d, err := career.Decode(career.Kind(kind), blob)
	if err != nil {
		return Career{}, err
	}
	return careerFromDomain(d), nil
}

// EncodeCareer renders a career to its stored blob form.
func (c *Client) EncodeCareer(kind CareerKind, v Career) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("encode_career", start, err) }()

	return career.Encode(career.Kind(kind), careerToDomain(v))
}

// BatchDistance returns the distance in km from reference to each city,
// aligned with cities. Unknown distances are nil.
func (c *Client) BatchDistance(ctx context.Context, reference string, cities []string) []*float64 {
	start := time.Now()
	defer c.obs.observe("batch_distance", start, nil)

	var out []*float64
	if c.geoSvc == nil {
		out = make([]*float64, len(cities))
	} else {
		out = c.geoSvc.BatchDistance(ctx, reference, cities)
	}
	c.obs.unresolved(out)
	return out
}

// Distance returns the distance in km between two cities. It reports
// false when either city cannot be resolved.
func (c *Client) Distance(ctx context.Context, a, b string) (float64, bool) {
	start := time.Now()
	defer c.obs.observe("distance", start, nil)

	if c.geoSvc == nil {
		return 0, false
	}
	return c.geoSvc.Distance(ctx, a, b)
}

// Coordinates resolves a city through the cache and geocoder.
func (c *Client) Coordinates(ctx context.Context, city string) (Coordinates, bool) {
	start := time.Now()
	defer c.obs.observe("coordinates", start, nil)

	if c.geoSvc == nil {
		return Coordinates{}, false
	}
	p, ok := c.geoSvc.ResolveCoordinates(ctx, city)
	return Coordinates{Lat: p.Lat, Lon: p.Lon}, ok
}

// Ping checks the roster source and cache store where they support it.
func (c *Client) Ping(ctx context.Context) error {
	var errs []error
	for _, p := range c.probes {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases stores opened by the client.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
