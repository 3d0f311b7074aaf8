package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version    int               `yaml:"version"`
	Server     ServerConfig      `yaml:"server"`
	Database   DatabaseConfig    `yaml:"database"`
	Languages  LanguagesConfig   `yaml:"languages"`
	Attributes []AttributeConfig `yaml:"attributes"`
	Log        LogConfig         `yaml:"log"`
	Metrics    MetricsConfig     `yaml:"metrics"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver string `yaml:"driver"`        // sqlite or postgres
	Path   string `yaml:"path"`          // sqlite file path
	DSN    string `yaml:"dsn,omitempty"` // postgres connection string
}

// LanguagesConfig describes the language context of the host model
type LanguagesConfig struct {
	Active    string   `yaml:"active"`
	Fallback  string   `yaml:"fallback"`
	Available []string `yaml:"available"`
}

// AttributeConfig declares one served attribute
type AttributeConfig struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
