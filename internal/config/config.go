// Package config provides configuration management for the bsmodel CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "bsmodel"
	envPrefix  = "BSMODEL"
)

var ErrConfigInvalid = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Defaults OptionDefaults `mapstructure:"defaults"`
	Surface  SurfaceConfig  `mapstructure:"surface"`
	Output   OutputConfig   `mapstructure:"output"`
}

// OptionDefaults are the option inputs used when a flag is not given.
type OptionDefaults struct {
	Spot           float64 `mapstructure:"spot"`
	Strike         float64 `mapstructure:"strike"`
	TimeToMaturity float64 `mapstructure:"time_to_maturity"`
	Volatility     float64 `mapstructure:"volatility"`
	InterestRate   float64 `mapstructure:"interest_rate"`
}

// SurfaceConfig controls how the spot and volatility axes are sampled.
type SurfaceConfig struct {
	Points         int     `mapstructure:"points"`
	SpotLowFactor  float64 `mapstructure:"spot_low_factor"`
	SpotHighFactor float64 `mapstructure:"spot_high_factor"`
	VolLowFactor   float64 `mapstructure:"vol_low_factor"`
	VolHighFactor  float64 `mapstructure:"vol_high_factor"`
	Workers        int     `mapstructure:"workers"`
}

// OutputConfig holds output-related configuration.
type OutputConfig struct {
	Format    string `mapstructure:"format"` // table, json, csv
	Precision int    `mapstructure:"precision"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/bsmodel"
	}
	return filepath.Join(home, ".config", "bsmodel")
}

// Load reads bsmodel.toml from configDir (the default directory when empty)
// and applies BSMODEL_* environment overrides. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.toml: %w", configName, err)
		}
	}

	return decode(v)
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	cfg, _ := decode(withDefaults(viper.New()))
	return cfg
}

func newViper() *viper.Viper {
	v := withDefaults(viper.New())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func withDefaults(v *viper.Viper) *viper.Viper {
	// Dashboard defaults.
	v.SetDefault("defaults.spot", 100.0)
	v.SetDefault("defaults.strike", 100.0)
	v.SetDefault("defaults.time_to_maturity", 1.0)
	v.SetDefault("defaults.volatility", 0.2)
	v.SetDefault("defaults.interest_rate", 0.05)

	v.SetDefault("surface.points", 10)
	v.SetDefault("surface.spot_low_factor", 0.8)
	v.SetDefault("surface.spot_high_factor", 1.2)
	v.SetDefault("surface.vol_low_factor", 0.5)
	v.SetDefault("surface.vol_high_factor", 1.5)
	v.SetDefault("surface.workers", 4)

	v.SetDefault("output.format", "table")
	v.SetDefault("output.precision", 2)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if c.Surface.Points < 1 {
		return fmt.Errorf("%w: surface.points must be at least 1, got %d", ErrConfigInvalid, c.Surface.Points)
	}
	if c.Surface.SpotLowFactor <= 0 || c.Surface.SpotLowFactor > c.Surface.SpotHighFactor {
		return fmt.Errorf("%w: surface spot factors must satisfy 0 < low <= high, got %v..%v",
			ErrConfigInvalid, c.Surface.SpotLowFactor, c.Surface.SpotHighFactor)
	}
	if c.Surface.VolLowFactor < 0 || c.Surface.VolLowFactor > c.Surface.VolHighFactor {
		return fmt.Errorf("%w: surface vol factors must satisfy 0 <= low <= high, got %v..%v",
			ErrConfigInvalid, c.Surface.VolLowFactor, c.Surface.VolHighFactor)
	}
	if c.Surface.Workers < 0 {
		return fmt.Errorf("%w: surface.workers must not be negative", ErrConfigInvalid)
	}
	if err := ValidateFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Output.Precision < 0 || c.Output.Precision > 12 {
		return fmt.Errorf("%w: output.precision must be within 0..12, got %d", ErrConfigInvalid, c.Output.Precision)
	}
	return nil
}

// ValidateFormat reports whether format is a supported output format.
func ValidateFormat(format string) error {
	switch format {
	case "table", "json", "csv":
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q (want table, json or csv)", ErrConfigInvalid, format)
}
