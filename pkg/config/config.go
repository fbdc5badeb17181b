// Package config loads procview settings from an optional YAML file and
// the environment. Filter criteria are never configuration: they come
// from the URL (web UI) or command-line flags (terminal UI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all procview settings.
type Config struct {
	// APIBaseURL is the root of the compliance API (e.g., "https://api.medshield.example").
	APIBaseURL string `yaml:"api_base_url"`

	// Token is the bearer token used by the terminal tools. The web UI
	// uses the caller's own token instead.
	Token string `yaml:"token"`

	// UserAgent is sent with every API request.
	UserAgent string `yaml:"user_agent"`

	// RequestTimeout bounds each API request (default 30s).
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// RedisURL is the Redis address (host:port). Empty disables the
	// response cache and the shared rate limiter.
	RedisURL string `yaml:"redis_url"`

	RedisDB int `yaml:"redis_db"`

	// Listen is the web UI listen address (default ":8080").
	Listen string `yaml:"listen"`

	Log LogConfig `yaml:"log"`

	Export ExportConfig `yaml:"export"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`

	// File receives log output instead of stderr when set.
	File string `yaml:"file"`
}

// ExportConfig tunes the batch exporter.
type ExportConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
	MaxAttempts    int `yaml:"max_attempts"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		APIBaseURL:     "http://localhost:8000",
		UserAgent:      "medshield-procview/0.1.0",
		RequestTimeout: 30 * time.Second,
		Listen:         ":8080",
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			MaxConcurrency: 4,
			MaxAttempts:    3,
		},
	}
}

// Load returns Default() overlaid with the YAML file at path (skipped
// when path is empty) and then with environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	str("MEDSHIELD_API_URL", &cfg.APIBaseURL)
	str("MEDSHIELD_TOKEN", &cfg.Token)
	str("USER_AGENT", &cfg.UserAgent)
	str("REDIS_URL", &cfg.RedisURL)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)

	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_PRETTY: %w", err)
		}
		cfg.Log.Pretty = pretty
	}
	if v := os.Getenv("MEDSHIELD_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MEDSHIELD_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL (got %q)", c.APIBaseURL)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive (got %s)", c.RequestTimeout)
	}
	if c.Export.MaxConcurrency < 1 {
		return fmt.Errorf("export.max_concurrency must be >= 1 (got %d)", c.Export.MaxConcurrency)
	}
	if c.Export.MaxAttempts < 1 {
		return fmt.Errorf("export.max_attempts must be >= 1 (got %d)", c.Export.MaxAttempts)
	}
	return nil
}
