package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steamappcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultDBName, cfg.DBName)
	assert.Equal(t, DefaultMaxResults, cfg.MaxResults)
	assert.Equal(t, DefaultTimeout, cfg.Timeout.Std())
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, DefaultInitialBackoff, cfg.InitialBackoff.Std())
	assert.Equal(t, DefaultMaxAge, cfg.MaxAge.Std())
	assert.Equal(t, DefaultFuzzyCutoff, cfg.FuzzyCutoff)
	assert.Equal(t, DefaultFuzzyLimit, cfg.FuzzyLimit)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
cache_dir: /tmp/catalog
api_key: from-file
max_attempts: 5
initial_backoff: 250ms
max_age: 24h
fuzzy_cutoff: 70
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/catalog", cfg.CacheDir)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialBackoff.Std())
	assert.Equal(t, 24*time.Hour, cfg.MaxAge.Std())
	assert.Equal(t, 70, cfg.FuzzyCutoff)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultMaxResults, cfg.MaxResults)
}

func TestLoad_EnvironmentOverridesYAML(t *testing.T) {
	path := writeFile(t, "api_key: from-file\nmax_results: 1000\n")
	t.Setenv("STEAMAPPCAT_API_KEY", "from-env")
	t.Setenv("STEAMAPPCAT_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 1000, cfg.MaxResults)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "no_such_key: 1\n", "no_such_key"},
		{"bad duration", "timeout: soon\n", "invalid duration"},
		{"malformed yaml", "api_key: [\n", "failed to parse config"},
		{"invalid value", "max_attempts: 0\n", "max_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadEnvironment(t *testing.T) {
	t.Setenv("STEAMAPPCAT_MAX_RESULTS", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty api key is valid", func(c *Config) { c.APIKey = "" }, ""},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }, "cache_dir"},
		{"db name with separator", func(c *Config) { c.DBName = "a/b.db" }, "db_name"},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, "endpoint"},
		{"zero max results", func(c *Config) { c.MaxResults = 0 }, "max_results"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"negative backoff", func(c *Config) { c.InitialBackoff = Duration(-time.Second) }, "initial_backoff"},
		{"negative rps", func(c *Config) { c.RequestsPerSecond = -1 }, "requests_per_second"},
		{"zero max age", func(c *Config) { c.MaxAge = 0 }, "max_age"},
		{"cutoff above 100", func(c *Config) { c.FuzzyCutoff = 101 }, "fuzzy_cutoff"},
		{"negative limit", func(c *Config) { c.FuzzyLimit = -1 }, "fuzzy_limit"},
		{"empty schedule", func(c *Config) { c.WatchSchedule = "" }, "watch_schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "steamappcat.yaml")
	cfg := Default()
	cfg.APIKey = "secret"
	cfg.MaxAge = Duration(48 * time.Hour)

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_age: 48h0m0s")
	assert.Contains(t, string(data), "timeout: 1m0s")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_DBPath(t *testing.T) {
	cfg := Default()
	cfg.CacheDir = "/var/cache/steamappcat"
	assert.Equal(t, filepath.Join("/var/cache/steamappcat", DefaultDBName), cfg.DBPath())
}
