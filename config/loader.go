package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStopsURL      = "https://opendata.transport.nsw.gov.au/dataset/e9d94351-f22d-46ea-b64d-10e7e238368a/resource/03163152-4462-432d-965a-8b17b204646a/download/gtfs-stops.txt"
	DefaultLookupURL     = "http://localhost:5001/api/stop-finder"
	DefaultAPIKeyEnv     = "TFN_API_KEY"
	DefaultTimeoutMS     = 5000
	DefaultDelayMS       = 300
	DefaultProgressEvery = 100
)

// ErrMissingCredential is returned when no API key could be resolved
var ErrMissingCredential = errors.New("missing API credential")

// DefaultModes returns the modes compiled when config.yml names none
func DefaultModes() []Mode {
	return []Mode{
		{Name: "Train", ProductClass: 1, Output: "trainStations.json"},
		{Name: "Bus", ProductClass: 5, Output: "busStops.json"},
		{Name: "Light Rail", ProductClass: 4, Output: "lightRailStops.json"},
		{Name: "Ferry", ProductClass: 9, Output: "ferryWharves.json"},
		{Name: "Coach", ProductClass: 7, Output: "coachStops.json"},
	}
}

// Default returns a configuration populated entirely with defaults
func Default() AppConfig {
	var cfg AppConfig
	cfg.applyDefaults()
	return cfg
}

// LoadAppConfig loads and validates the configuration at path.
// An empty path tries config.yml in the working directory; a missing
// default file is not an error and yields Default().
func LoadAppConfig(path string) (AppConfig, error) {
	explicit := path != ""
	if !explicit {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field rules
func (c AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	seen := map[string]bool{}
	for _, m := range c.Modes {
		key := strings.ToLower(m.Name)
		if seen[key] {
			return fmt.Errorf("config: duplicate mode %q", m.Name)
		}
		seen[key] = true
	}
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.Feed.StopsURL == "" {
		c.Feed.StopsURL = DefaultStopsURL
	}
	if c.Lookup.URL == "" {
		c.Lookup.URL = DefaultLookupURL
	}
	if c.Lookup.Style == "" {
		c.Lookup.Style = "proxy"
	}
	if c.Lookup.TypeFilter == "" {
		c.Lookup.TypeFilter = "stop"
	}
	if c.Lookup.TimeoutMS == 0 {
		c.Lookup.TimeoutMS = DefaultTimeoutMS
	}
	if c.Lookup.APIKeyEnv == "" {
		c.Lookup.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Throttle.Strategy == "" {
		c.Throttle.Strategy = "fixed"
	}
	if c.Throttle.DelayMS == 0 && c.Throttle.Strategy == "fixed" {
		c.Throttle.DelayMS = DefaultDelayMS
	}
	if c.Output.ProgressEvery == 0 {
		c.Output.ProgressEvery = DefaultProgressEvery
	}
	if len(c.Modes) == 0 {
		c.Modes = DefaultModes()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ResolveAPIKey fills APIKey from override, then from the configured
// environment variable. A .env file in the working directory is loaded
// first if present; variables already set in the process win.
func (c *AppConfig) ResolveAPIKey(override string) error {
	if override != "" {
		c.APIKey = override
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	c.APIKey = strings.TrimSpace(os.Getenv(c.Lookup.APIKeyEnv))
	if c.APIKey == "" {
		return fmt.Errorf("%w: set %s", ErrMissingCredential, c.Lookup.APIKeyEnv)
	}
	return nil
}

// SelectModes filters modes by a comma-separated list of names (case-insensitive).
// An empty filter returns all modes in configured order.
func (c AppConfig) SelectModes(filter string) ([]Mode, error) {
	if strings.TrimSpace(filter) == "" {
		return c.Modes, nil
	}
	want := map[string]bool{}
	for _, n := range strings.Split(filter, ",") {
		n = strings.TrimSpace(strings.ToLower(n))
		if n != "" {
			want[n] = true
		}
	}
	var out []Mode
	for _, m := range c.Modes {
		if want[strings.ToLower(m.Name)] {
			out = append(out, m)
			delete(want, strings.ToLower(m.Name))
		}
	}
	if len(want) > 0 {
		var missing []string
		for n := range want {
			missing = append(missing, n)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("config: unknown modes: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// OutputPath resolves a mode's artifact path against Output.Dir
func (c AppConfig) OutputPath(m Mode) string {
	if filepath.IsAbs(m.Output) || c.Output.Dir == "" {
		return m.Output
	}
	return filepath.Join(c.Output.Dir, m.Output)
}
