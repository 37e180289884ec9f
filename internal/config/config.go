package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rshade/sieve/internal/sieve"
)

// Output formats.
const (
	FormatList = "list"
	FormatDots = "dots"
)

// Default configuration values.
const (
	DefaultMinPower  = sieve.DefaultMinPower
	DefaultMagnitude = sieve.DefaultMagnitude
	DefaultWorkers   = 1
	DefaultRowWidth  = 64
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	configFileName = "config.yaml"
)

// Environment variables that override file values.
const (
	EnvHome         = "SIEVE_HOME"
	EnvMinPower     = "SIEVE_MIN_POWER"
	EnvWorkers      = "SIEVE_WORKERS"
	EnvLogLevel     = "SIEVE_LOG_LEVEL"
	EnvOutputFormat = "SIEVE_OUTPUT_FORMAT"
)

// Config is the full sieve configuration.
type Config struct {
	Sieve   SieveConfig   `yaml:"sieve"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
	loadErr    error
}

// SieveConfig tunes the batch layout and the sieve passes.
type SieveConfig struct {
	// MinPower is the power of two of the first batch.
	MinPower uint `yaml:"min_power"`
	// DefaultMagnitude is analyzed when no size argument is given.
	DefaultMagnitude uint `yaml:"default_magnitude"`
	// Workers shards each batch pass; 1 keeps it sequential.
	Workers int `yaml:"workers"`
}

// OutputConfig controls prime listing output.
type OutputConfig struct {
	// Format is "list" or "dots".
	Format string `yaml:"format"`
	// Display disables the per-batch listing when false.
	Display bool `yaml:"display"`
	// RowWidth wraps dot-grid rows; 0 disables wrapping.
	RowWidth int `yaml:"row_width"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		Sieve: SieveConfig{
			MinPower:         DefaultMinPower,
			DefaultMagnitude: DefaultMagnitude,
			Workers:          DefaultWorkers,
		},
		Output: OutputConfig{
			Format:   FormatList,
			Display:  true,
			RowWidth: DefaultRowWidth,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New returns the defaults merged with the global config file and the
// environment. A missing config file leaves the defaults in place; an
// unreadable or malformed one does too, and the failure is kept in LoadError.
func New() *Config {
	cfg := Default()
	if path, err := DefaultConfigPath(); err == nil {
		cfg.configPath = path
		if _, statErr := os.Stat(cfg.configPath); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, cfg.configPath); mergeErr != nil {
				// A partial merge must not leak half-applied sections.
				cfg = Default()
				cfg.configPath = path
				cfg.loadErr = mergeErr
			}
		}
	}
	cfg.applyEnv()
	return cfg
}

// Load returns the global configuration with the file at overlayPath merged
// on top. An empty overlayPath behaves like New but reports validation errors.
func Load(overlayPath string) (*Config, error) {
	cfg := New()
	if overlayPath != "" {
		if err := ShallowMergeYAML(cfg, overlayPath); err != nil {
			return nil, err
		}
		// Environment still wins over any file.
		cfg.applyEnv()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadError returns why the global config file was ignored, or nil.
func (c *Config) LoadError() error {
	return c.loadErr
}

// ConfigPath returns the file the configuration is saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file the configuration is saved to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML to ConfigPath.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err = os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.configPath, err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate checks every section for values the sieve cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Sieve.MinPower < sieve.MinPowerFloor {
		errs = append(errs, fmt.Errorf("sieve.min_power must be >= %d, got %d", sieve.MinPowerFloor, c.Sieve.MinPower))
	}
	if c.Sieve.Workers < 1 {
		errs = append(errs, fmt.Errorf("sieve.workers must be >= 1, got %d", c.Sieve.Workers))
	}
	if c.Output.Format != FormatList && c.Output.Format != FormatDots {
		errs = append(errs, fmt.Errorf("output.format must be %q or %q, got %q", FormatList, FormatDots, c.Output.Format))
	}
	if c.Output.RowWidth < 0 {
		errs = append(errs, fmt.Errorf("output.row_width must be >= 0, got %d", c.Output.RowWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// applyEnv overrides file values with SIEVE_* environment variables.
// Unparseable numbers are ignored.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvMinPower); v != "" {
		if n, err := strconv.ParseUint(v, 10, 0); err == nil {
			c.Sieve.MinPower = uint(n)
		}
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Sieve.Workers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
}
