package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBaseURL       = "https://api.weather.gov"
	DefaultColumnWidth   = 20
	DefaultUnit          = "F"
	DefaultTerminalWidth = 100
	DefaultTimeout       = 30 * time.Second
	DefaultContact       = "https://github.com/rshade/weathr"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "console"
)

// File names under the configuration directory.
const (
	CacheDirName     = "cache"
	SnapshotFileName = "properties.json"
	SettingsFileName = "config.yaml"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration for one run.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	API     APIConfig     `yaml:"api"`

	// Dir is the configuration directory. Empty when none could be found.
	Dir string `yaml:"-"`
	// SnapshotOverride replaces the default snapshot path when set.
	SnapshotOverride string `yaml:"-"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// OutputConfig controls the printed report.
type OutputConfig struct {
	ColumnWidth int    `yaml:"column_width"`
	Unit        string `yaml:"unit"`
	// Width fixes the terminal width; 0 means detect it.
	Width int `yaml:"width"`
	// Timezone is an IANA zone for observation times; empty means local.
	Timezone string `yaml:"timezone"`
}

// Location resolves Timezone.
func (o OutputConfig) Location() (*time.Location, error) {
	if o.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: output.timezone: %w", ErrInvalidConfig, err)
	}
	return loc, nil
}

// APIConfig controls requests to the weather service.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// Contact goes in the User-Agent so the service can reach the operator.
	Contact string `yaml:"contact"`
}

// New returns a Config holding the defaults and no directory.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:  OutputConfig{ColumnWidth: DefaultColumnWidth, Unit: DefaultUnit},
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
			Contact: DefaultContact,
		},
	}
}

// HasDir reports whether a configuration directory is known.
func (c *Config) HasDir() bool {
	return c.Dir != ""
}

// CacheDir is the response cache root, or "" without a directory.
func (c *Config) CacheDir() string {
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, CacheDirName)
}

// SnapshotPath is the location snapshot file, or "" when neither an
// override nor a directory is available.
func (c *Config) SnapshotPath() string {
	if c.SnapshotOverride != "" {
		return c.SnapshotOverride
	}
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, SnapshotFileName)
}

// SettingsPath is the optional settings file, or "" without a directory.
func (c *Config) SettingsPath() string {
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, SettingsFileName)
}

// Validate checks the values a settings file or the environment may have
// broken.
func (c *Config) Validate() error {
	if c.Output.ColumnWidth <= 0 {
		return fmt.Errorf("%w: output.column_width must be positive, got %d", ErrInvalidConfig, c.Output.ColumnWidth)
	}
	if c.Output.Width < 0 {
		return fmt.Errorf("%w: output.width must not be negative, got %d", ErrInvalidConfig, c.Output.Width)
	}
	switch strings.ToUpper(c.Output.Unit) {
	case "F", "C":
	default:
		return fmt.Errorf("%w: output.unit must be F or C, got %q", ErrInvalidConfig, c.Output.Unit)
	}
	if _, err := c.Output.Location(); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive, got %s", ErrInvalidConfig, c.API.Timeout)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", ErrInvalidConfig, c.API.BaseURL)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
