package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds the terminal client settings. Values come from the
// defaults, then the YAML file, then command-line flags.
type ClientConfig struct {
	APIURL              string        `yaml:"api_url"`
	StoreDriver         string        `yaml:"store_driver"`
	StorePath           string        `yaml:"store_path"`
	WeatherAPIKey       string        `yaml:"weather_api_key"`
	WeatherBaseURL      string        `yaml:"weather_base_url"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	OnlineCheckInterval time.Duration `yaml:"online_check_interval"`
	HasBackend          bool          `yaml:"has_backend"`
	TracksHistory       bool          `yaml:"tracks_history"`
	Verbose             bool          `yaml:"verbose"`
}

const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// DefaultDir is ~/.serenity, or .serenity when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".serenity"
	}

	return filepath.Join(home, ".serenity")
}

func (c *ClientConfig) LoadDefaults() {
	c.APIURL = "http://localhost:3001/api"
	c.StoreDriver = StoreSQLite
	c.StorePath = filepath.Join(DefaultDir(), "serenity.db")
	c.WeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.HasBackend = true
	c.TracksHistory = true
}

// LoadClientConfig applies the defaults and overlays path when it exists.
// A missing file is not an error.
func LoadClientConfig(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	cfg.LoadDefaults()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c *ClientConfig) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}

	return nil
}
