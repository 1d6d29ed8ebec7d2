// Package config loads player-enrich settings from config.yaml, ENRICH_*
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/player-enrich/pkg/geocode"
)

// EnvPrefix is prepended to every environment override, e.g. ENRICH_GEOCODE_API_KEY.
const EnvPrefix = "ENRICH"

// Config holds the full application configuration.
type Config struct {
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Countries CountriesConfig `yaml:"countries" mapstructure:"countries"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GeocodeConfig selects and tunes the geocoding provider.
type GeocodeConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string        `yaml:"user_agent" mapstructure:"user_agent"`
	MinDelayMs  int           `yaml:"min_delay_ms" mapstructure:"min_delay_ms"`
	TimeoutSecs int           `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retry       RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Circuit     CircuitConfig `yaml:"circuit" mapstructure:"circuit"`
}

// MinDelay returns the minimum spacing between geocoder calls.
func (g GeocodeConfig) MinDelay() time.Duration {
	return time.Duration(g.MinDelayMs) * time.Millisecond
}

// Timeout returns the per-call HTTP timeout.
func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// RetryConfig bounds retries of transient geocoder failures.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// CircuitConfig configures the geocoder circuit breaker.
type CircuitConfig struct {
	Threshold        int `yaml:"threshold" mapstructure:"threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// EnrichConfig configures the distance pass.
type EnrichConfig struct {
	Concurrency   int `yaml:"concurrency" mapstructure:"concurrency"`
	ProgressEvery int `yaml:"progress_every" mapstructure:"progress_every"`
}

// CountriesConfig names the lookup columns of the country table.
type CountriesConfig struct {
	KeyColumn  string `yaml:"key_column" mapstructure:"key_column"`
	NameColumn string `yaml:"name_column" mapstructure:"name_column"`
}

// FetchConfig configures remote input downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// StoreConfig configures the run store. Driver "none" disables persistence.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the read-only API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a useful default are registered empty so that
	// AutomaticEnv can still override them on Unmarshal.
	v.SetDefault("geocode.provider", "openmapquest")
	v.SetDefault("geocode.api_key", "")
	v.SetDefault("geocode.base_url", "")
	v.SetDefault("geocode.user_agent", "player-enrich/1.0")
	v.SetDefault("geocode.min_delay_ms", 400)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.retry.max_attempts", 3)
	v.SetDefault("geocode.retry.initial_backoff_ms", 500)
	v.SetDefault("geocode.retry.max_backoff_ms", 10000)
	v.SetDefault("geocode.circuit.threshold", 5)
	v.SetDefault("geocode.circuit.reset_timeout_secs", 30)
	v.SetDefault("enrich.concurrency", 4)
	v.SetDefault("enrich.progress_every", 50)
	v.SetDefault("countries.key_column", "code_3digit")
	v.SetDefault("countries.name_column", "Country_name")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.user_agent", "player-enrich/1.0")
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is one of "enrich",
// "per" (enrich without geocoding), "geocode", "runs" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "enrich", "geocode":
		errs = append(errs, c.validateGeocode()...)
		if mode == "enrich" && (c.Enrich.Concurrency < 1 || c.Enrich.Concurrency > 64) {
			errs = append(errs, "enrich.concurrency must be between 1 and 64")
		}
	case "per":
	case "runs":
		errs = append(errs, c.validateStore(true)...)
	case "serve":
		errs = append(errs, c.validateStore(true)...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "enrich" || mode == "per" {
		errs = append(errs, c.validateStore(false)...)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateGeocode() []string {
	var errs []string
	switch strings.ToLower(c.Geocode.Provider) {
	case "", "openmapquest", "google":
		if c.Geocode.APIKey == "" {
			errs = append(errs, fmt.Sprintf("geocode.api_key is required for provider %q", c.Geocode.Provider))
		}
	case "nominatim":
		if c.Geocode.UserAgent == "" {
			errs = append(errs, "geocode.user_agent is required for provider \"nominatim\"")
		}
	default:
		errs = append(errs, fmt.Sprintf("geocode.provider %q is not supported", c.Geocode.Provider))
	}
	if minMs := geocode.DefaultMinDelay.Milliseconds(); int64(c.Geocode.MinDelayMs) < minMs {
		errs = append(errs, fmt.Sprintf("geocode.min_delay_ms must be >= %d", minMs))
	}
	return errs
}

func (c *Config) validateStore(required bool) []string {
	switch c.Store.Driver {
	case "", "none":
		if required {
			return []string{"store.driver must be sqlite or postgres"}
		}
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
	default:
		return []string{fmt.Sprintf("store.driver %q is not supported", c.Store.Driver)}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
