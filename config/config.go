// Package config loads run configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/aclements/bipv/pv"
	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	ProviderPVGIS    = "pvgis"
	ProviderClearSky = "clearsky"
)

// Config holds all configuration for a run.
// Environment variables override YAML values.
type Config struct {
	PanelEfficiency    float64 `yaml:"panel_efficiency" env:"BIPV_PANEL_EFFICIENCY" env-default:"0.22"`
	InverterEfficiency float64 `yaml:"inverter_efficiency" env:"BIPV_INVERTER_EFFICIENCY" env-default:"0.96"`
	SystemLosses       float64 `yaml:"system_losses" env:"BIPV_SYSTEM_LOSSES" env-default:"0.14"`
	Albedo             float64 `yaml:"albedo" env:"BIPV_ALBEDO" env-default:"0.25"`

	// Workers bounds per-element and per-surface parallelism. 0 means
	// GOMAXPROCS.
	Workers int `yaml:"workers" env:"BIPV_WORKERS" env-default:"0"`

	Weather WeatherConfig `yaml:"weather"`
	Shading ShadingConfig `yaml:"shading"`

	LogLevel string `yaml:"log_level" env:"BIPV_LOG_LEVEL" env-default:"info"`
}

// WeatherConfig selects and configures the weather provider.
type WeatherConfig struct {
	Provider   string        `yaml:"provider" env:"BIPV_WEATHER_PROVIDER" env-default:"pvgis"`
	BaseURL    string        `yaml:"base_url" env:"BIPV_PVGIS_URL" env-default:"https://re.jrc.ec.europa.eu/api/v5_2"`
	Timeout    time.Duration `yaml:"timeout" env:"BIPV_WEATHER_TIMEOUT" env-default:"60s"`
	MaxRetries int           `yaml:"max_retries" env:"BIPV_WEATHER_RETRIES" env-default:"3"`

	// CacheDir enables the on-disk weather cache. Empty disables it,
	// so every run refetches.
	CacheDir string `yaml:"cache_dir" env:"BIPV_CACHE_DIR" env-default:""`
}

// ShadingConfig controls beam shading by the model's own geometry and
// extra STL meshes.
type ShadingConfig struct {
	Enabled bool `yaml:"enabled" env:"BIPV_SHADING" env-default:"false"`
	// Buildings and Foliage are extra STL files, in meters.
	Buildings []string `yaml:"buildings" env:"BIPV_SHADING_BUILDINGS"`
	Foliage   []string `yaml:"foliage" env:"BIPV_SHADING_FOLIAGE"`
}

// Load reads configuration from path with environment variable
// overrides. If path is empty, only the environment and defaults are
// used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Weather.Provider {
	case ProviderPVGIS, ProviderClearSky:
	default:
		return fmt.Errorf("%w: unknown weather provider %q", ErrInvalid, c.Weather.Provider)
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("%w: negative max_retries", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative workers", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Params returns the PV system parameters.
func (c *Config) Params() pv.Params {
	return pv.Params{
		PanelEfficiency:    c.PanelEfficiency,
		InverterEfficiency: c.InverterEfficiency,
		SystemLosses:       c.SystemLosses,
		Albedo:             c.Albedo,
	}
}

// Logger builds a console logger at the configured level. Logs go to
// stderr so tables on stdout stay clean.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.DisableStacktrace = true
	return logConfig.Build()
}
