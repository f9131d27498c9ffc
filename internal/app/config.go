package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // hcl command manifests

	LogFormat     string
	LogLevel      string
	IncludeHidden bool
}

// NewConfig validates a Config value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
