// Package config loads fiberpay settings from defaults, an optional YAML
// file and FIBERPAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FIBERPAY_LOG_LEVEL.
const EnvPrefix = "FIBERPAY"

// PathEnv names the config file when --config is not given.
const PathEnv = "FIBERPAY_CONFIG"

// Config holds all configuration for fiberpay.
type Config struct {
	// RulesPath points at a YAML rules file; empty uses built-in rules.
	RulesPath string          `mapstructure:"rules_path"`
	Workers   int             `mapstructure:"workers"`
	Log       LogConfig       `mapstructure:"log"`
	Report    ReportConfig    `mapstructure:"report"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReportConfig struct {
	Keywords []string `mapstructure:"keywords"`
	BarWidth int      `mapstructure:"bar_width"`
}

type NarrativeConfig struct {
	FiberField string `mapstructure:"fiber_field"`
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"console": true, "json": true}
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration with precedence env > file > defaults. path is
// the --config flag; when empty, $FIBERPAY_CONFIG and then ./fiberpay.yaml
// are tried. Only an explicitly named file is required to exist.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		v.SetConfigName("fiberpay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate returns every invalid setting in cfg.
func Validate(cfg *Config) []error {
	var errs []error
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers))
	}
	if !validLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level: invalid value %q", cfg.Log.Level))
	}
	if !validFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Errorf("log.format: invalid value %q (expected console or json)", cfg.Log.Format))
	}
	if cfg.Report.BarWidth <= 0 {
		errs = append(errs, fmt.Errorf("report.bar_width must be positive, got %d", cfg.Report.BarWidth))
	}
	return errs
}

// EffectiveWorkers resolves workers = 0 to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rules_path", "")
	v.SetDefault("workers", 0)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetDefault("report.keywords", []string{"FAT", "Splice enclosure", "Patch panel"})
	v.SetDefault("report.bar_width", 30)

	v.SetDefault("narrative.fiber_field", "Fiber")
}
