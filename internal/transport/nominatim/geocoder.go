// Package nominatim geocodes city names with an OpenStreetMap Nominatim
// compatible search API, behind a circuit breaker.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// DefaultBaseURL is the public OpenStreetMap instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
	MinRequests      uint32
}

// Config holds the geocoder settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Email     string
	Timeout   time.Duration
	Breaker   BreakerConfig
	Logger    *zap.Logger
}

// Geocoder resolves city names to coordinates.
type Geocoder struct {
	baseURL   string
	userAgent string
	email     string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// New creates a Nominatim geocoder.
func New(cfg *Config) *Geocoder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	b := cfg.Breaker
	if b.MinRequests == 0 {
		b.MinRequests = 3
	}
	if b.ReadyToTripRatio <= 0 {
		b.ReadyToTripRatio = 0.6
	}

	st := gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= b.MinRequests && failureRatio >= b.ReadyToTripRatio
		},
		// An unknown city is a valid answer, not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrCityNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &Geocoder{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		email:     cfg.Email,
		client:    &http.Client{Timeout: timeout},
		cb:        gobreaker.NewCircuitBreaker(st),
		logger:    logger,
	}
}

// place is one Nominatim search hit. Coordinates arrive as strings.
type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements the geodistance Geocoder port.
func (g *Geocoder) Geocode(ctx context.Context, city string) (geo.Point, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		return g.search(ctx, city)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return geo.Point{}, fmt.Errorf("%w: %w", domain.ErrGeocoderUnavailable, err)
		}
		return geo.Point{}, err
	}
	return res.(geo.Point), nil
}

// HealthCheck reports whether the breaker currently admits requests.
func (g *Geocoder) HealthCheck(_ context.Context) error {
	if g.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: circuit open", domain.ErrGeocoderUnavailable)
	}
	return nil
}

func (g *Geocoder) search(ctx context.Context, city string) (geo.Point, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("addressdetails", "0")
	if g.email != "" {
		q.Set("email", g.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %w", domain.ErrGeocoderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	g.logger.Debug("Nominatim search",
		zap.String("city", city), zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return geo.Point{}, fmt.Errorf("%w: status %d", domain.ErrGeocoderUnavailable, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return geo.Point{}, fmt.Errorf("%w: decode response: %w", domain.ErrGeocoderUnavailable, err)
	}
	if len(places) == 0 {
		return geo.Point{}, fmt.Errorf("%w: %q", domain.ErrCityNotFound, city)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	p := geo.Point{Lat: lat, Lon: lon}
	if errLat != nil || errLon != nil || !p.Valid() {
		return geo.Point{}, fmt.Errorf("%w: bad coordinates %q,%q", domain.ErrGeocoderUnavailable, places[0].Lat, places[0].Lon)
	}
	return p, nil
}
