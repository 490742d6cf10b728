package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestConfig_Defaults tests that an empty document yields the built-in modes
func TestConfig_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if len(cfg.Modes) != 5 {
		t.Fatalf("expected 5 default modes, got %d", len(cfg.Modes))
	}
	if cfg.Modes[0].Name != "Train" || cfg.Modes[0].ProductClass != 1 {
		t.Errorf("first mode = %+v, want Train/1", cfg.Modes[0])
	}
	if cfg.Throttle.Strategy != "fixed" || cfg.Throttle.DelayMS != 300 {
		t.Errorf("throttle defaults = %+v", cfg.Throttle)
	}
	if cfg.Output.ProgressEvery != 100 {
		t.Errorf("progressEvery = %d, want 100", cfg.Output.ProgressEvery)
	}
	if cfg.Lookup.TypeFilter != "stop" || cfg.Lookup.Style != "proxy" {
		t.Errorf("lookup defaults = %+v", cfg.Lookup)
	}
}

func TestConfig_ParseOverrides(t *testing.T) {
	doc := `
feed:
  stopsURL: ./stops.txt
lookup:
  url: https://api.transport.nsw.gov.au/v1/tp/stop_finder
  style: direct
throttle:
  strategy: tokenBucket
  ratePerSecond: 4
  burst: 1
output:
  dir: out
modes:
  - name: Ferry
    productClass: 9
    output: ferry.json
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Feed.StopsURL != "./stops.txt" {
		t.Errorf("stopsURL = %q", cfg.Feed.StopsURL)
	}
	if len(cfg.Modes) != 1 || cfg.Modes[0].ProductClass != 9 {
		t.Fatalf("modes = %+v", cfg.Modes)
	}
	if got := cfg.OutputPath(cfg.Modes[0]); got != filepath.Join("out", "ferry.json") {
		t.Errorf("OutputPath = %q", got)
	}
	if cfg.Throttle.DelayMS != 0 {
		t.Errorf("token bucket should not get a fixed delay default, got %d", cfg.Throttle.DelayMS)
	}
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "invalid: yaml: content: [[["},
		{"bad style", "lookup:\n  style: carrier-pigeon\n"},
		{"bad lookup url", "lookup:\n  url: not a url\n"},
		{"zero product class", "modes:\n  - name: Train\n    productClass: 0\n    output: t.json\n"},
		{"missing output", "modes:\n  - name: Train\n    productClass: 1\n"},
		{"duplicate mode", "modes:\n  - {name: Bus, productClass: 5, output: a.json}\n  - {name: bus, productClass: 5, output: b.json}\n"},
		{"negative delay", "throttle:\n  delayMS: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestConfig_MissingFile tests error handling for a missing explicit config
func TestConfig_MissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Error("Loading non-existent explicit config should return error")
	}
}

func TestConfig_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("logLevel: debug\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("logLevel = %q", cfg.LogLevel)
	}
}

func TestConfig_SelectModes(t *testing.T) {
	cfg := Default()

	all, err := cfg.SelectModes("")
	if err != nil || len(all) != 5 {
		t.Fatalf("SelectModes(\"\") = %d, %v", len(all), err)
	}

	sel, err := cfg.SelectModes("ferry, TRAIN")
	if err != nil {
		t.Fatalf("SelectModes: %v", err)
	}
	// configured order is kept, not filter order
	if len(sel) != 2 || sel[0].Name != "Train" || sel[1].Name != "Ferry" {
		t.Errorf("SelectModes = %+v", sel)
	}

	if _, err := cfg.SelectModes("train,monorail"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestConfig_ResolveAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Lookup.APIKeyEnv = "STATIONS_TEST_API_KEY"

	t.Run("override wins", func(t *testing.T) {
		t.Setenv("STATIONS_TEST_API_KEY", "from-env")
		if err := cfg.ResolveAPIKey("from-flag"); err != nil {
			t.Fatal(err)
		}
		if cfg.APIKey != "from-flag" {
			t.Errorf("APIKey = %q", cfg.APIKey)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("STATIONS_TEST_API_KEY", "  from-env  ")
		if err := cfg.ResolveAPIKey(""); err != nil {
			t.Fatal(err)
		}
		if cfg.APIKey != "from-env" {
			t.Errorf("APIKey = %q", cfg.APIKey)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("STATIONS_TEST_API_KEY", "")
		err := cfg.ResolveAPIKey("")
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("expected ErrMissingCredential, got %v", err)
		}
	})
}
