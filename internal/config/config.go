// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// RISKBOARD_RISKAPI_BASE_URL or RISKBOARD_CACHE_DIR.
const EnvPrefix = "RISKBOARD"

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	RiskAPI RiskAPIConfig `mapstructure:"riskapi" yaml:"riskapi"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Builder BuilderConfig `mapstructure:"builder" yaml:"builder"`
}

// LoggerConfig controls the zap logger and file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RiskAPIConfig holds the connection details for the upstream scoring API.
type RiskAPIConfig struct {
	// BaseURL is the root of the risk scoring API. Trailing slashes are
	// stripped; individual endpoints decide their own slash policy.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// InternalScanURL is the separate fixed endpoint serving CMM control
	// ratings. It lives on a different path tree and is never cached.
	InternalScanURL string        `mapstructure:"internal_scan_url" yaml:"internal_scan_url"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// RateLimit caps outgoing requests per second. Bundle rebuilds issue
	// O(companies x categories + domains x categories) calls, so this is the
	// main lever against upstream throttling.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// CacheConfig locates the on-disk bundle cache.
type CacheConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// BuilderConfig tunes bundle assembly.
type BuilderConfig struct {
	// Concurrency bounds the parallel per-domain fan-out during a bundle
	// build. 1 preserves strictly sequential fetching.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// StaleTTL is the default age after which RebuildStale refreshes a
	// bundle file.
	StaleTTL time.Duration `mapstructure:"stale_ttl" yaml:"stale_ttl"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "riskboard")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Risk API --
	v.SetDefault("riskapi.base_url", "https://abfzxwlwbqbrsdd-dev.adb.ap-sydney-1.oraclecloudapps.com/ords/uws_project/riskapi")
	v.SetDefault("riskapi.internal_scan_url", "https://abfzxwlwbqbrsdd-dev.adb.ap-sydney-1.oraclecloudapps.com/ords/dev/cmm_ratings_stub/")
	v.SetDefault("riskapi.timeout", "20s")
	v.SetDefault("riskapi.rate_limit", 10.0)
	v.SetDefault("riskapi.rate_burst", 5)

	// -- Cache --
	v.SetDefault("cache.dir", defaultCacheDir())

	// -- Builder --
	v.SetDefault("builder.concurrency", 1)
	v.SetDefault("builder.stale_ttl", "24h")
}

// defaultCacheDir resolves ~/.riskboard/data, falling back to a relative
// directory when the home directory cannot be determined.
func defaultCacheDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".riskboard", "data")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.RiskAPI.BaseURL = strings.TrimRight(cfg.RiskAPI.BaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would break the pipeline.
func (c *Config) Validate() error {
	if c.RiskAPI.BaseURL == "" {
		return fmt.Errorf("riskapi.base_url must not be empty")
	}
	if c.RiskAPI.Timeout <= 0 {
		return fmt.Errorf("riskapi.timeout must be positive, got %s", c.RiskAPI.Timeout)
	}
	if c.RiskAPI.RateLimit <= 0 {
		return fmt.Errorf("riskapi.rate_limit must be positive, got %f", c.RiskAPI.RateLimit)
	}
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir must not be empty")
	}
	if c.Builder.Concurrency < 1 {
		return fmt.Errorf("builder.concurrency must be at least 1, got %d", c.Builder.Concurrency)
	}
	return nil
}
