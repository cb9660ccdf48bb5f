package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is read when no config file is named
	DefaultPath = "fpcommits.yaml"

	// Environment variables consulted when the file leaves the caller identity unset
	EnvUserAgent = "FPCOMMITS_USER_AGENT"
	EnvFrom      = "FPCOMMITS_FROM"
)

// EndpointConfig locates the upstream service
type EndpointConfig struct {
	BaseURL string        `yaml:"baseURL"` // Commits listing URL, ending in "/"
	Timeout time.Duration `yaml:"timeout"` // Per-request HTTP timeout, 0 disables it
}

// Config is the main configuration structure
type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	// Fetch holds repository, max, userAgent and from exactly as written in
	// the file. Types are checked later by fpcommits.Resolve.
	Fetch   map[string]any `yaml:"fetch"`
	Verbose bool           `yaml:"verbose"` // Log each page request
}

// GetDefault returns the configuration used when nothing is overridden
func GetDefault() Config {
	return Config{
		Endpoint: EndpointConfig{
			BaseURL: "https://commits.facepunch.com/r/",
			Timeout: 30 * time.Second,
		},
	}
}

// New merges overrides over the defaults and fills the caller identity from
// the environment where it is missing
func New(overrides *Config) (Config, error) {
	cfg := GetDefault()
	cfg.Fetch = make(map[string]any)

	if overrides != nil {
		if err := mergo.Merge(&cfg.Endpoint, overrides.Endpoint, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("error merging endpoint config: %w", err)
		}
		for k, v := range overrides.Fetch {
			cfg.Fetch[k] = v
		}
		cfg.Verbose = overrides.Verbose
	}

	// Use environment variables for the identity if not in config
	setFromEnv(cfg.Fetch, "userAgent", EnvUserAgent)
	setFromEnv(cfg.Fetch, "from", EnvFrom)

	return cfg, nil
}

func setFromEnv(fetch map[string]any, key, env string) {
	if _, ok := fetch[key]; ok {
		return
	}
	if v := os.Getenv(env); v != "" {
		fetch[key] = v
	}
}

// LoadConfig loads the configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Set default path if not provided
	if path == "" {
		path = DefaultPath
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg, err := New(&parsed)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Endpoint.BaseURL == "" {
		return fmt.Errorf("endpoint baseURL is required")
	}

	u, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint baseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint baseURL must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint baseURL '%s' has no host", c.Endpoint.BaseURL)
	}
	if !strings.HasSuffix(c.Endpoint.BaseURL, "/") {
		return fmt.Errorf("endpoint baseURL '%s' must end with '/'", c.Endpoint.BaseURL)
	}

	if c.Endpoint.Timeout < 0 {
		return fmt.Errorf("endpoint timeout must not be negative")
	}

	return nil
}

// Options returns a copy of the fetch section for fpcommits.Resolve
func (c *Config) Options() map[string]any {
	out := make(map[string]any, len(c.Fetch))
	for k, v := range c.Fetch {
		out[k] = v
	}
	return out
}
