// Package config provides configuration management for dialctl using Viper.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/quantresi/dialctl/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "dialctl"

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// Tracking holds the settings for the tracking-summary collaborator.
	Tracking TrackingConfig `mapstructure:"tracking" yaml:"tracking"`

	// Dial holds the dial schedule grammar settings.
	Dial DialConfig `mapstructure:"dial" yaml:"dial"`

	// Generate holds defaults for the spec generator.
	Generate GenerateConfig `mapstructure:"generate" yaml:"generate"`
}

// TrackingConfig locates and filters the tracking workbooks.
type TrackingConfig struct {
	// ReportDirs maps report labels (Dialed, Undialed) to base directories.
	ReportDirs map[string]string `mapstructure:"report_dirs" yaml:"report_dirs"`

	// Dealtypes lists the deal types to summarize.
	Dealtypes []string `mapstructure:"dealtypes" yaml:"dealtypes"`

	// BucketType selects which bucket section to extract (WAC, AGE, FICO, ...).
	BucketType string `mapstructure:"bucket_type" yaml:"bucket_type"`

	// ErrorWindow selects the error columns (3M, 6M, 12M).
	ErrorWindow string `mapstructure:"error_window" yaml:"error_window"`

	// StatusSheets are sheets with no bucket sections; every Status row is collected.
	StatusSheets []string `mapstructure:"status_sheets" yaml:"status_sheets"`

	// ExcludeSheets are skipped entirely.
	ExcludeSheets []string `mapstructure:"exclude_sheets" yaml:"exclude_sheets"`
}

// DialConfig holds the dial schedule shape.
type DialConfig struct {
	// FlatMonths is the length of the flat segment at the full multiplier.
	FlatMonths int `mapstructure:"flat_months" yaml:"flat_months"`

	// RampMonths is the length of the linear ramp back to 1.0x.
	RampMonths int `mapstructure:"ramp_months" yaml:"ramp_months"`
}

// GenerateConfig holds defaults for generated override specs.
type GenerateConfig struct {
	DefaultStartDate string  `mapstructure:"default_start_date" yaml:"default_start_date"`
	DefaultDial      float64 `mapstructure:"default_dial" yaml:"default_dial"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support
	viper.SetEnvPrefix("DIALCTL")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("tracking.dealtypes", []string{"STACR", "CAS", "JUMBO", "HE", "NONQM"})
	viper.SetDefault("tracking.bucket_type", "WAC")
	viper.SetDefault("tracking.error_window", "6M")
	viper.SetDefault("tracking.status_sheets", []string{"M30", "M60", "M90P", "M270P", "FCLS", "REO"})
	viper.SetDefault("tracking.exclude_sheets", []string{"CDR", "CPR"})
	viper.SetDefault("dial.flat_months", 48)
	viper.SetDefault("dial.ramp_months", 23)
	viper.SetDefault("generate.default_start_date", "20240101")
	viper.SetDefault("generate.default_dial", 1.0)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errs[0]
	}

	return &cfg, nil
}

// Default returns a configuration populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Version: 1,
		Tracking: TrackingConfig{
			Dealtypes:     []string{"STACR", "CAS", "JUMBO", "HE", "NONQM"},
			BucketType:    "WAC",
			ErrorWindow:   "6M",
			StatusSheets:  []string{"M30", "M60", "M90P", "M270P", "FCLS", "REO"},
			ExcludeSheets: []string{"CDR", "CPR"},
		},
		Dial: DialConfig{
			FlatMonths: 48,
			RampMonths: 23,
		},
		Generate: GenerateConfig{
			DefaultStartDate: "20240101",
			DefaultDial:      1.0,
		},
	}
}
