package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

// ErrNoAPIBaseURL means neither api.base_url nor server.public_url is set.
var ErrNoAPIBaseURL = errors.New("no agent API base URL: set AGENT_API_BASE_URL or PUBLIC_URL")

// Duration lets TOML files spell timeouts as "30s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig describes this service. PublicURL is the origin browsers
// load the page from; it stands in for the API base URL when that is unset.
type ServerConfig struct {
	Port      string `toml:"port"`
	PublicURL string `toml:"public_url"`
}

// APIConfig describes the backend that answers queries.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Server ServerConfig `toml:"server"`
	API    APIConfig    `toml:"api"`
	Log    LogConfig    `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("PUBLIC_URL"); v != "" {
		c.Server.PublicURL = v
	}
	if v := getenv("AGENT_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := getenv("AGENT_API_TIMEOUT"); v != "" {
		if err := c.API.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("AGENT_API_TIMEOUT: %w", err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.Server.PublicURL = strings.TrimRight(strings.TrimSpace(c.Server.PublicURL), "/")
	return nil
}

// APIBaseURL is the backend the server posts to: api.base_url when set,
// otherwise the page's public origin.
func (c *Config) APIBaseURL() (string, error) {
	for _, v := range []string{c.API.BaseURL, c.Server.PublicURL} {
		if v = strings.TrimRight(strings.TrimSpace(v), "/"); v != "" {
			return v, nil
		}
	}
	return "", ErrNoAPIBaseURL
}

// FromEnv loads CONFIG_PATH (or the default path) and applies env overrides.
func FromEnv() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}

	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if _, err := cfg.APIBaseURL(); err != nil {
		return nil, err
	}
	return cfg, nil
}
