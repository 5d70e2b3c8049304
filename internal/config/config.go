// Package config handles configuration parsing for ringclock.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/acolita/ringclock/internal/ports"
	"gopkg.in/yaml.v3"
)

// Driver modes.
const (
	// ModeRequest ticks the engine lazily: a read advances it by one tick if
	// at least one interval has passed since the previous tick.
	ModeRequest = "request"
	// ModeTimer ticks the engine from a background timer once per interval.
	ModeTimer = "timer"
)

// DefaultConfigPath returns the default config file path:
// $XDG_CONFIG_HOME/ringclock/config.yaml or ~/.config/ringclock/config.yaml
func DefaultConfigPath(fsys ...ports.FileSystem) string {
	getenv, home := os.Getenv, os.UserHomeDir
	if len(fsys) > 0 && fsys[0] != nil {
		getenv, home = fsys[0].Getenv, fsys[0].UserHomeDir
	}

	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		h, err := home()
		if err != nil {
			return ""
		}
		dir = filepath.Join(h, ".config")
	}
	return filepath.Join(dir, "ringclock", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Driver  DriverConfig  `yaml:"driver"`
	Clock   ClockConfig   `yaml:"clock"`
	MCP     MCPConfig     `yaml:"mcp"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig defines the HTTP driver settings.
type HTTPConfig struct {
	Listen        string   `yaml:"listen"`         // address to listen on; empty disables HTTP
	StaticDir     string   `yaml:"static_dir"`     // directory served at / (optional)
	StaticExclude []string `yaml:"static_exclude"` // doublestar globs never served from static_dir
	CORSOrigins   []string `yaml:"cors_origins"`
}

// DriverConfig defines how ticks are paced.
type DriverConfig struct {
	Mode         string        `yaml:"mode"` // "request" or "timer"
	TickInterval time.Duration `yaml:"tick_interval"`
}

// ClockConfig defines engine settings.
type ClockConfig struct {
	Location string `yaml:"location"` // IANA zone name, "" or "Local" for the host zone
	Start    string `yaml:"start"`    // optional "h:m:s" applied after the initial sync
}

// MCPConfig defines the MCP driver settings.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"` // serve MCP tools on stdio
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Listen:        ":8000",
			StaticExclude: []string{"**/.*"},
			CORSOrigins:   []string{"*"},
		},
		Driver: DriverConfig{
			Mode:         ModeRequest,
			TickInterval: clock.DefaultInterval,
		},
		Clock: ClockConfig{
			Location: "Local",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var data []byte
	var err error
	if len(fsys) > 0 && fsys[0] != nil {
		data, err = fsys[0].ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return parse(data)
}

// parse decodes YAML over the defaults.
func parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and fills in defaults for unset values.
func (c *Config) Validate() error {
	switch c.Driver.Mode {
	case "":
		c.Driver.Mode = ModeRequest
	case ModeRequest, ModeTimer:
	default:
		return fmt.Errorf("driver.mode %q: must be %q or %q", c.Driver.Mode, ModeRequest, ModeTimer)
	}

	if c.Driver.TickInterval <= 0 {
		c.Driver.TickInterval = clock.DefaultInterval
	}

	if _, err := c.Clock.LoadLocation(); err != nil {
		return err
	}
	if _, _, _, _, err := c.Clock.ParseStart(); err != nil {
		return err
	}

	return nil
}

// LoadLocation resolves the configured time zone.
func (c ClockConfig) LoadLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("clock.location %q: %w", c.Location, err)
	}
	return loc, nil
}

// ParseStart parses the optional start time. ok is false when none is set.
func (c ClockConfig) ParseStart() (hour, minute, second int, ok bool, err error) {
	if c.Start == "" {
		return 0, 0, 0, false, nil
	}

	parts := strings.Split(c.Start, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false, fmt.Errorf("clock.start %q: want h:m:s", c.Start)
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, false, fmt.Errorf("clock.start %q: %w", c.Start, err)
		}
		vals[i] = v
	}
	if !clock.ValidHour(vals[0]) || !clock.ValidMinute(vals[1]) || !clock.ValidSecond(vals[2]) {
		return 0, 0, 0, false, fmt.Errorf("clock.start %q: out of range", c.Start)
	}
	return vals[0], vals[1], vals[2], true, nil
}

// Save writes the configuration to a YAML file.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Save(cfg *Config, path string, fsys ...ports.FileSystem) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if len(fsys) > 0 && fsys[0] != nil {
		if err := fsys[0].MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		return fsys[0].WriteFile(path, data, 0644)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
