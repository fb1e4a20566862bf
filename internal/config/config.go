// Package config loads arcai client settings from a YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath   = "ARCAI_CONFIG"
	EnvAPIURL       = "ARCAI_API_URL"
	EnvSecret       = "ARCAI_SECRET"
	EnvProject      = "ARCAI_PROJECT"
	EnvLogFile      = "ARCAI_LOG_FILE"
	EnvLogLevel     = "ARCAI_LOG_LEVEL"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName  = "OTEL_SERVICE_NAME"
)

// Defaults.
const (
	DefaultAPIURL      = "http://localhost:3000/api/trpc"
	DefaultTimeout     = 10 * time.Second
	DefaultLogLevel    = "info"
	DefaultServiceName = "arcai"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL    string        `yaml:"api_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Secret    string        `yaml:"secret"`
	User      string        `yaml:"user"`
	ProjectID string        `yaml:"project"`
	Log       LogConfig     `yaml:"log"`
	Telemetry Telemetry     `yaml:"telemetry"`
}

// LogConfig controls the log sink. An empty File discards logs; the TUI owns
// the terminal.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Telemetry configures OTLP trace export. An empty Endpoint disables it.
type Telemetry struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		Log:     LogConfig{Level: DefaultLogLevel},
		Telemetry: Telemetry{
			ServiceName: DefaultServiceName,
			Insecure:    true,
		},
	}
}

// DefaultPath returns $ARCAI_CONFIG, or ~/.arcai/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".arcai", "config.yaml"), nil
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, EnvAPIURL)
	set(&c.Secret, EnvSecret)
	set(&c.ProjectID, EnvProject)
	set(&c.Log.File, EnvLogFile)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Telemetry.Endpoint, EnvOTLPEndpoint)
	set(&c.Telemetry.ServiceName, EnvServiceName)
}

// Load reads the file at path (DefaultPath when empty) and applies the
// process environment.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		path = p
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Validate checks the settings the client cannot run without.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an absolute http(s) URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
