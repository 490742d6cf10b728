package config

// FeedConfig describes where the static stops export is read from
type FeedConfig struct {
	StopsURL string `yaml:"stopsURL" validate:"required"`
}

// LookupConfig contains stop-finder configuration
type LookupConfig struct {
	URL        string `yaml:"url" validate:"required,url"`
	Style      string `yaml:"style" validate:"omitempty,oneof=proxy direct"`
	TypeFilter string `yaml:"typeFilter"`
	TimeoutMS  int    `yaml:"timeoutMS" validate:"gte=0"`
	APIKeyEnv  string `yaml:"apiKeyEnv"`
}

// ThrottleConfig selects the limiter placed between verification calls
type ThrottleConfig struct {
	Strategy string  `yaml:"strategy" validate:"omitempty,oneof=fixed tokenBucket none"`
	DelayMS  int     `yaml:"delayMS" validate:"gte=0"`
	RatePerS float64 `yaml:"ratePerSecond" validate:"gte=0"`
	Burst    int     `yaml:"burst" validate:"gte=0"`
}

// Mode is one compiled transport mode
type Mode struct {
	Name         string `yaml:"name" validate:"required"`
	ProductClass int    `yaml:"productClass" validate:"gt=0"`
	Output       string `yaml:"output" validate:"required"`
}

// OutputConfig contains artifact placement settings
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	ProgressEvery int    `yaml:"progressEvery" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Feed     FeedConfig     `yaml:"feed"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Output   OutputConfig   `yaml:"output"`
	Modes    []Mode         `yaml:"modes" validate:"dive"`
	LogLevel string         `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	// APIKey is filled from the environment by ResolveAPIKey.
	APIKey string `yaml:"-"`
}
