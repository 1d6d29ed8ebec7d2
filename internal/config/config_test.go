package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openmapquest", cfg.Geocode.Provider)
	assert.Empty(t, cfg.Geocode.APIKey)
	assert.Equal(t, 400, cfg.Geocode.MinDelayMs)
	assert.Equal(t, 400*time.Millisecond, cfg.Geocode.MinDelay())
	assert.Equal(t, 10*time.Second, cfg.Geocode.Timeout())
	assert.Equal(t, 3, cfg.Geocode.Retry.MaxAttempts)
	assert.Equal(t, 500, cfg.Geocode.Retry.InitialBackoffMs)
	assert.Equal(t, 5, cfg.Geocode.Circuit.Threshold)
	assert.Equal(t, 30, cfg.Geocode.Circuit.ResetTimeoutSecs)
	assert.Equal(t, 4, cfg.Enrich.Concurrency)
	assert.Equal(t, 50, cfg.Enrich.ProgressEvery)
	assert.Equal(t, "code_3digit", cfg.Countries.KeyColumn)
	assert.Equal(t, "Country_name", cfg.Countries.NameColumn)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, int32(4), cfg.Store.MaxConns)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
geocode:
  provider: nominatim
  min_delay_ms: 1000
  retry:
    max_attempts: 5
store:
  driver: sqlite
  database_url: runs.db
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nominatim", cfg.Geocode.Provider)
	assert.Equal(t, time.Second, cfg.Geocode.MinDelay())
	assert.Equal(t, 5, cfg.Geocode.Retry.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "runs.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 4, cfg.Enrich.Concurrency)
	assert.Equal(t, 500, cfg.Geocode.Retry.InitialBackoffMs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("ENRICH_STORE_DRIVER", "postgres")
	t.Setenv("ENRICH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("ENRICH_GEOCODE_API_KEY", "mq-key")
	t.Setenv("ENRICH_GEOCODE_MIN_DELAY_MS", "750")
	t.Setenv("ENRICH_ENRICH_CONCURRENCY", "8")
	t.Setenv("ENRICH_STORE_DATABASE_URL", "postgres://localhost/enrich")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mq-key", cfg.Geocode.APIKey)
	assert.Equal(t, 750, cfg.Geocode.MinDelayMs)
	assert.Equal(t, 8, cfg.Enrich.Concurrency)
	assert.Equal(t, "postgres://localhost/enrich", cfg.Store.DatabaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("geocode: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Geocode.Provider = "openmapquest"
	cfg.Geocode.APIKey = "mq-key"
	cfg.Geocode.UserAgent = "player-enrich/1.0"
	cfg.Geocode.MinDelayMs = 400
	cfg.Enrich.Concurrency = 4
	cfg.Store.Driver = "none"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateEnrich_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("enrich"))
}

func TestValidateEnrich_MissingKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.APIKey = ""

	err := cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.api_key is required")

	assert.NoError(t, cfg.Validate("per"), "PER-only runs need no geocoder")
}

func TestValidateEnrich_NominatimNeedsUserAgent(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Provider = "nominatim"
	cfg.Geocode.APIKey = ""
	assert.NoError(t, cfg.Validate("geocode"))

	cfg.Geocode.UserAgent = ""
	err := cfg.Validate("geocode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_agent")
}

func TestValidateEnrich_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Provider = "bing"

	err := cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestValidateGeocodeMinDelay(t *testing.T) {
	tests := []struct {
		name    string
		delayMs int
		wantErr bool
	}{
		{"disabled", 0, true},
		{"negative", -1, true},
		{"just under", 399, true},
		{"floor", 400, false},
		{"slower", 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			cfg.Geocode.MinDelayMs = tt.delayMs

			err := cfg.Validate("enrich")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "geocode.min_delay_ms must be >= 400")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateGeocodeMinDelayFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENRICH_GEOCODE_API_KEY", "mq-key")
	t.Setenv("ENRICH_GEOCODE_MIN_DELAY_MS", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate("enrich"))
	assert.Error(t, cfg.Validate("geocode"))
	assert.NoError(t, cfg.Validate("per"), "PER-only runs never call the geocoder")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Enrich.Concurrency = 0
	err := cfg.Validate("enrich")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "enrich.concurrency must be between 1 and 64")

	cfg.Enrich.Concurrency = 65
	assert.Error(t, cfg.Validate("enrich"))

	cfg.Enrich.Concurrency = 64
	assert.NoError(t, cfg.Validate("enrich"))
}

func TestValidateStore(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")

	cfg.Store.Driver = "sqlite"
	err = cfg.Validate("runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "runs.db"
	assert.NoError(t, cfg.Validate("runs"))

	cfg.Store.Driver = "mysql"
	err = cfg.Validate("enrich")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "runs.db"
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
