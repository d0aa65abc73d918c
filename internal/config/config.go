// Package config loads the dimmerd YAML configuration.
package config

import (
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Location  LocationConfig  `yaml:"location"`
	ColorTemp ColorTempConfig `yaml:"colortemp"`
	Engine    EngineConfig    `yaml:"engine"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LocationConfig contains manually entered coordinates for solar
// calculations. Lat/Lon are pointers so an absent location is distinguishable
// from (0,0).
type LocationConfig struct {
	Lat      *float64 `yaml:"lat,omitempty"`
	Lon      *float64 `yaml:"lon,omitempty"`
	Timezone string   `yaml:"timezone"`
}

// ColorTempConfig contains day/night color temperature settings
type ColorTempConfig struct {
	Enabled     *bool    `yaml:"enabled"`
	DayKelvin   float64  `yaml:"day_kelvin"`
	NightKelvin float64  `yaml:"night_kelvin"`
	Transition  Duration `yaml:"transition"` // full transition window width
}

// GetEnabled returns the enabled flag, defaulting to true
func (c *ColorTempConfig) GetEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// EngineConfig contains automation engine settings
type EngineConfig struct {
	TickInterval Duration `yaml:"tick_interval"`
	Displays     []string `yaml:"displays"` // display identifiers to seed the table with
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "./dimmerd.sqlite"
	}
	if c.Location.Timezone == "" {
		c.Location.Timezone = "Local"
	}
	if c.ColorTemp.DayKelvin == 0 {
		c.ColorTemp.DayKelvin = 6500
	}
	if c.ColorTemp.NightKelvin == 0 {
		c.ColorTemp.NightKelvin = 3400
	}
	if c.ColorTemp.Transition == 0 {
		c.ColorTemp.Transition = Duration(40 * time.Minute)
	}
	if c.Engine.TickInterval == 0 {
		c.Engine.TickInterval = Duration(time.Minute)
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
