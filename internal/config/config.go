// Package config provides configuration management for translatedtext.
//
// The config file supplies the host model's language context (active,
// fallback and available languages), the attributes to serve, and the
// storage backend. Without a file, defaults serve a single attribute in
// English over a local SQLite database.
//
// Config file locations (priority order):
//  1. $TRANSLATEDTEXT_CONFIG
//  2. ./translatedtext.yaml
//  3. $XDG_CONFIG_HOME/translatedtext/config.yaml
//  4. ~/.config/translatedtext/config.yaml
//  5. /etc/translatedtext/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"translatedtext/internal/domain"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes YAML, applies defaults and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Languages: LanguagesConfig{
			Active:    "en",
			Fallback:  "en",
			Available: []string{"en"},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "./translatedtext.db"
	}

	// Fallback defaults to the active language: one tier, no second query
	if c.Languages.Fallback == "" {
		c.Languages.Fallback = c.Languages.Active
	}
	if len(c.Languages.Available) == 0 && c.Languages.Active != "" {
		c.Languages.Available = []string{c.Languages.Active}
		if c.Languages.Fallback != c.Languages.Active {
			c.Languages.Available = append(c.Languages.Available, c.Languages.Fallback)
		}
	}

	if len(c.Attributes) == 0 {
		c.Attributes = []AttributeConfig{{ID: 1, Name: "description"}}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate canonicalizes language codes and checks cross-field consistency
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.Languages.Active == "" {
		errs = append(errs, errors.New("languages.active is required"))
	}

	available := make([]string, 0, len(c.Languages.Available))
	seen := make(map[string]struct{}, len(c.Languages.Available))
	for _, code := range c.Languages.Available {
		canonical, err := CanonicalLanguage(code)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		available = append(available, canonical)
	}
	c.Languages.Available = available

	for _, field := range []*string{&c.Languages.Active, &c.Languages.Fallback} {
		if *field == "" {
			continue
		}
		canonical, err := CanonicalLanguage(*field)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*field = canonical
		if _, ok := seen[canonical]; !ok {
			errs = append(errs, fmt.Errorf("language %q is not in languages.available", canonical))
		}
	}

	ids := make(map[int64]struct{}, len(c.Attributes))
	for _, att := range c.Attributes {
		if _, dup := ids[att.ID]; dup {
			errs = append(errs, fmt.Errorf("attribute id %d declared twice", att.ID))
		}
		ids[att.ID] = struct{}{}
	}

	return errors.Join(errs...)
}

// CanonicalLanguage normalizes a BCP 47 code ("de_ch" -> "de-CH")
func CanonicalLanguage(code string) (string, error) {
	lang, err := domain.ParseLanguage(code)
	return string(lang), err
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Database: %s", c.Database.Driver)
	if c.Database.Driver == DriverSQLite {
		summary += fmt.Sprintf(" (%s)", c.Database.Path)
	}
	summary += fmt.Sprintf("\nLanguages: active=%s fallback=%s available=%s\n",
		c.Languages.Active, c.Languages.Fallback, strings.Join(c.Languages.Available, ","))
	summary += fmt.Sprintf("Attributes (%d):", len(c.Attributes))
	for _, att := range c.Attributes {
		summary += fmt.Sprintf(" %d:%s", att.ID, att.Name)
	}
	return summary
}
