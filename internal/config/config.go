package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/projection"
)

// Config holds the talentdex service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Cache    CacheConfig    `yaml:"cache"`
	Roster   RosterConfig   `yaml:"roster"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the geodistance cache store settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, badger, memory (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // badger directory; empty = in-memory
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLHours         int      `yaml:"ttl_hours"` // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RosterConfig selects the roster source.
type RosterConfig struct {
	Driver      string `yaml:"driver"` // postgres, file (default: file)
	DatabaseURL string `yaml:"database_url"`
	Path        string `yaml:"path"`
}

// BreakerConfig holds circuit breaker settings for the remote geocoder.
type BreakerConfig struct {
	MaxRequests  uint32  `yaml:"max_requests"`
	IntervalSec  int     `yaml:"interval_sec"`
	TimeoutSec   int     `yaml:"timeout_sec"`
	MinRequests  uint32  `yaml:"min_requests"`
	FailureRatio float64 `yaml:"failure_ratio"`
}

// GeocoderConfig holds geocoding provider settings.
type GeocoderConfig struct {
	Provider      string        `yaml:"provider"` // nominatim, static (default: nominatim)
	BaseURL       string        `yaml:"base_url"`
	UserAgent     string        `yaml:"user_agent"`
	Email         string        `yaml:"email"`
	TimeoutMs     int           `yaml:"timeout_ms"`
	GazetteerPath string        `yaml:"gazetteer_path"`
	Breaker       BreakerConfig `yaml:"breaker"`
}

// MatcherConfig holds fuzzy matching settings.
type MatcherConfig struct {
	Threshold     *float64           `yaml:"threshold"` // nil = default, 0 = exact only
	MinTermLength int                `yaml:"min_term_length"`
	Weights       map[string]float64 `yaml:"weights"` // field name -> exponent
}

// RankingConfig holds ordering and distance resolution settings.
type RankingConfig struct {
	Language         string `yaml:"language"` // BCP 47 collation tag, empty = root
	BatchConcurrency int    `yaml:"batch_concurrency"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "talentdex:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Roster.Driver == "" {
		c.Roster.Driver = "file"
	}
	if c.Geocoder.Provider == "" {
		c.Geocoder.Provider = "nominatim"
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = "talentdex"
	}
	if c.Geocoder.TimeoutMs <= 0 {
		c.Geocoder.TimeoutMs = 5000
	}
	if c.Geocoder.Breaker.TimeoutSec <= 0 {
		c.Geocoder.Breaker.TimeoutSec = 30
	}
	if c.Geocoder.Breaker.IntervalSec <= 0 {
		c.Geocoder.Breaker.IntervalSec = 60
	}
	if c.Geocoder.Breaker.MinRequests == 0 {
		c.Geocoder.Breaker.MinRequests = 3
	}
	if c.Geocoder.Breaker.FailureRatio <= 0 {
		c.Geocoder.Breaker.FailureRatio = 0.6
	}
	if c.Matcher.Threshold == nil {
		t := fuzzy.DefaultThreshold
		c.Matcher.Threshold = &t
	}
	if c.Matcher.MinTermLength <= 0 {
		c.Matcher.MinTermLength = fuzzy.DefaultMinTermLength
	}
	if c.Ranking.BatchConcurrency <= 0 {
		c.Ranking.BatchConcurrency = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Cache.Driver {
	case "redis", "valkey":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	case "badger", "memory":
		// ok
	default:
		return fmt.Errorf("cache.driver must be one of redis, valkey, badger, memory, got %q", c.Cache.Driver)
	}

	switch c.Roster.Driver {
	case "postgres":
		if c.Roster.DatabaseURL == "" {
			return fmt.Errorf("roster.database_url is required for driver \"postgres\"")
		}
	case "file":
		if c.Roster.Path == "" {
			return fmt.Errorf("roster.path is required for driver \"file\"")
		}
	default:
		return fmt.Errorf("roster.driver must be \"postgres\" or \"file\", got %q", c.Roster.Driver)
	}

	switch c.Geocoder.Provider {
	case "nominatim":
		if f := c.Geocoder.Breaker.FailureRatio; f > 1 {
			return fmt.Errorf("geocoder.breaker.failure_ratio must be in (0,1], got %g", f)
		}
	case "static":
		if c.Geocoder.GazetteerPath == "" {
			return fmt.Errorf("geocoder.gazetteer_path is required for provider \"static\"")
		}
	default:
		return fmt.Errorf("geocoder.provider must be \"nominatim\" or \"static\", got %q", c.Geocoder.Provider)
	}

	if t := c.Matcher.Threshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("matcher.threshold must be in [0,1], got %g", *t)
	}
	for name, w := range c.Matcher.Weights {
		if !projection.Field(name).IsValid() {
			return fmt.Errorf("matcher.weights: unknown field %q", name)
		}
		if w <= 0 {
			return fmt.Errorf("matcher.weights.%s must be positive, got %g", name, w)
		}
	}

	if c.Ranking.Language != "" {
		if _, err := language.Parse(c.Ranking.Language); err != nil {
			return fmt.Errorf("ranking.language: %w", err)
		}
	}
	return nil
}

// MatcherOptions converts the matcher section to fuzzy options.
func (c *Config) MatcherOptions() fuzzy.Options {
	overrides := make(projection.Weights, len(c.Matcher.Weights))
	for name, w := range c.Matcher.Weights {
		overrides[projection.Field(name)] = w
	}
	threshold := fuzzy.DefaultThreshold
	if c.Matcher.Threshold != nil {
		threshold = *c.Matcher.Threshold
	}
	return fuzzy.Options{
		Threshold:     threshold,
		MinTermLength: c.Matcher.MinTermLength,
		Weights:       overrides.Merge(),
	}
}

// CollationLanguage returns the parsed ranking language, or language.Und.
func (c *Config) CollationLanguage() language.Tag {
	if c.Ranking.Language == "" {
		return language.Und
	}
	tag, err := language.Parse(c.Ranking.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
