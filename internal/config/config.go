// Package config loads the dashboard's YAML configuration and validates it
// against an embedded CUE schema before anything starts up.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docwatch/docwatch/internal/tabular"
)

// Duration is a time.Duration that reads YAML strings like "30m" and
// serializes back to the same form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler so the schema sees the string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full dashboard configuration.
type Config struct {
	// Listen is the address the proxy binds, e.g. ":8080".
	Listen   string   `yaml:"listen" json:"listen"`
	Upstream Upstream `yaml:"upstream" json:"upstream"`
	Database Database `yaml:"database" json:"database"`
	Session  Session  `yaml:"session" json:"session"`
	Table    Table    `yaml:"table" json:"table"`
}

// Upstream locates the document-processing API.
type Upstream struct {
	BaseURL  string `yaml:"base_url" json:"base_url"`
	TokenURL string `yaml:"token_url" json:"token_url"`
	// CredentialsEnv names the environment variable holding the API key.
	// The key itself never appears in the file.
	CredentialsEnv string `yaml:"credentials_env" json:"credentials_env"`
}

// Database locates the reference-data SQLite file.
type Database struct {
	Path string `yaml:"path" json:"path"`
}

// Session tunes the proxy's session registry.
type Session struct {
	TTL           Duration `yaml:"ttl" json:"ttl"`
	SweepInterval Duration `yaml:"sweep_interval" json:"sweep_interval"`
}

// Table tunes the engine defaults shared by every list view.
type Table struct {
	PageSizeOptions   []int  `yaml:"page_size_options" json:"page_size_options"`
	DefaultPageSize   int    `yaml:"default_page_size" json:"default_page_size"`
	MaxSortDepth      int    `yaml:"max_sort_depth" json:"max_sort_depth"`
	SingleSortInitial string `yaml:"single_sort_initial" json:"single_sort_initial"`
	MultiSortInitial  string `yaml:"multi_sort_initial" json:"multi_sort_initial"`
}

// SingleInitial returns the configured first-click direction for
// single-column sorting.
func (t Table) SingleInitial() tabular.Direction {
	return tabular.Direction(t.SingleSortInitial)
}

// MultiInitial returns the configured append direction for multi-column
// sorting.
func (t Table) MultiInitial() tabular.Direction {
	return tabular.Direction(t.MultiSortInitial)
}

// Default returns the configuration used when a field is absent from the
// file.
func Default() Config {
	return Config{
		Listen: ":8080",
		Database: Database{
			Path: "docwatch.db",
		},
		Session: Session{
			TTL:           Duration(12 * time.Hour),
			SweepInterval: Duration(5 * time.Minute),
		},
		Table: Table{
			PageSizeOptions:   []int{10, 25, 50, 100},
			DefaultPageSize:   25,
			MaxSortDepth:      tabular.DefaultMaxSorts,
			SingleSortInitial: string(tabular.Ascending),
			MultiSortInitial:  string(tabular.Descending),
		},
	}
}

// Load reads, defaults, and validates the configuration at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML bytes, applies defaults, and validates.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Credentials resolves the upstream API key from the configured
// environment variable.
func (c Config) Credentials() (string, error) {
	key := os.Getenv(c.Upstream.CredentialsEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is empty", c.Upstream.CredentialsEnv)
	}
	return key, nil
}
