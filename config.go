package target

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide runtime configuration. It is read at startup
// and treated as read-only afterward.
type Config struct {
	// Logger enables verbose lifecycle logging through the package logger.
	Logger bool `yaml:"logger"`

	// Dev enables developer output: debug marker comments bracketing each
	// component's rendered region.
	Dev bool `yaml:"dev"`

	// API configures how page components build their fetch descriptors.
	API APIConfig `yaml:"api"`
}

// APIConfig holds the fetch-related configuration.
type APIConfig struct {
	// Local indicates the API is served by the same process; page
	// components may use it to pick relative endpoints.
	Local bool `yaml:"local"`

	// BaseURL is the base URL components resolve endpoints and relative
	// stylesheet filenames against.
	BaseURL string `yaml:"baseURL"`
}

// DefaultConfig returns the configuration used when no file is present:
// quiet, production mode, no API base.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads a YAML configuration file. A missing file is not an
// error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
