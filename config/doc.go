// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Missing values fall back to the built-in NSW defaults: the public GTFS
// stops export, the local stop-finder proxy and the five compiled modes.
// The API key is never read from YAML; it comes from the environment.
package config
