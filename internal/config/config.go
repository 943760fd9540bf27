// Package config loads steamappcat settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// STEAMAPPCAT_* environment variables. The result is validated before use.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. STEAMAPPCAT_API_KEY.
const EnvPrefix = "STEAMAPPCAT"

// Defaults.
const (
	DefaultEndpoint       = "https://api.steampowered.com/IStoreService/GetAppList/v1/"
	DefaultDBName         = "SteamAppList.db"
	DefaultMaxResults     = 50000
	DefaultTimeout        = 60 * time.Second
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = time.Second
	DefaultMaxAge         = 7 * 24 * time.Hour
	DefaultFuzzyCutoff    = 80
	DefaultFuzzyLimit     = 80
	DefaultWatchSchedule  = "0 * * * *"
	DefaultMetricsAddr    = ":9090"
)

// Config holds all steamappcat configuration.
type Config struct {
	CacheDir string `yaml:"cache_dir" split_words:"true"`
	DBName   string `yaml:"db_name" split_words:"true"`

	// Fetch settings
	APIKey            string   `yaml:"api_key" split_words:"true"`
	Endpoint          string   `yaml:"endpoint" split_words:"true"`
	MaxResults        int      `yaml:"max_results" split_words:"true"`
	Timeout           Duration `yaml:"timeout" split_words:"true"`
	MaxAttempts       int      `yaml:"max_attempts" split_words:"true"`
	InitialBackoff    Duration `yaml:"initial_backoff" split_words:"true"`
	RequestsPerSecond float64  `yaml:"requests_per_second" split_words:"true"`

	// Catalog settings
	MaxAge      Duration `yaml:"max_age" split_words:"true"`
	FuzzyCutoff int      `yaml:"fuzzy_cutoff" split_words:"true"`
	FuzzyLimit  int      `yaml:"fuzzy_limit" split_words:"true"`

	// Watch settings
	WatchSchedule string `yaml:"watch_schedule" split_words:"true"`
	MetricsAddr   string `yaml:"metrics_addr" split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CacheDir:       defaultCacheDir(),
		DBName:         DefaultDBName,
		Endpoint:       DefaultEndpoint,
		MaxResults:     DefaultMaxResults,
		Timeout:        Duration(DefaultTimeout),
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: Duration(DefaultInitialBackoff),
		MaxAge:         Duration(DefaultMaxAge),
		FuzzyCutoff:    DefaultFuzzyCutoff,
		FuzzyLimit:     DefaultFuzzyLimit,
		WatchSchedule:  DefaultWatchSchedule,
		MetricsAddr:    DefaultMetricsAddr,
	}
}

// DefaultPath is where createconfig writes and where the CLI looks for a
// config file when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "steamappcat.yaml"
	}
	return filepath.Join(dir, "steamappcat", "config.yaml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "steamappcat"
	}
	return filepath.Join(dir, "steamappcat")
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
// The file is private to the user since it may hold an API key.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks value ranges. An empty API key is valid.
func (c *Config) Validate() error {
	switch {
	case c.CacheDir == "":
		return errors.New("invalid config: cache_dir must not be empty")
	case c.DBName == "" || strings.ContainsAny(c.DBName, `/\`):
		return fmt.Errorf("invalid config: db_name %q must be a plain file name", c.DBName)
	case c.Endpoint == "":
		return errors.New("invalid config: endpoint must not be empty")
	case c.MaxResults <= 0:
		return fmt.Errorf("invalid config: max_results must be positive, got %d", c.MaxResults)
	case c.Timeout <= 0:
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	case c.MaxAttempts < 1:
		return fmt.Errorf("invalid config: max_attempts must be at least 1, got %d", c.MaxAttempts)
	case c.InitialBackoff < 0:
		return fmt.Errorf("invalid config: initial_backoff must not be negative, got %s", c.InitialBackoff)
	case c.RequestsPerSecond < 0:
		return fmt.Errorf("invalid config: requests_per_second must not be negative, got %g", c.RequestsPerSecond)
	case c.MaxAge <= 0:
		return fmt.Errorf("invalid config: max_age must be positive, got %s", c.MaxAge)
	case c.FuzzyCutoff < 0 || c.FuzzyCutoff > 100:
		return fmt.Errorf("invalid config: fuzzy_cutoff must be in [0, 100], got %d", c.FuzzyCutoff)
	case c.FuzzyLimit < 0:
		return fmt.Errorf("invalid config: fuzzy_limit must not be negative, got %d", c.FuzzyLimit)
	case c.WatchSchedule == "":
		return errors.New("invalid config: watch_schedule must not be empty")
	}
	return nil
}

// DBPath returns the catalog file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.CacheDir, c.DBName)
}

// Duration is a time.Duration written as "1m30s" in YAML and the environment.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.Decode(s)
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	v, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	*d = Duration(v)
	return nil
}
