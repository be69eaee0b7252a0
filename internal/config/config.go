// Package config provides configuration loading for the labscan service and
// CLI. Values come from DefaultConfig, then an optional YAML file, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/labscan/normalize"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for labscan.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes"`
	MaxConnections   int           `yaml:"max_connections"` // 0 means unlimited
}

// PipelineConfig holds scan pipeline defaults.
type PipelineConfig struct {
	Preprocessing   bool                   `yaml:"preprocessing"`
	SpellCorrection bool                   `yaml:"spell_correction"`
	DictionaryPath  string                 `yaml:"dictionary_path"`
	Languages       []string               `yaml:"languages"`
	Corrections     []normalize.Correction `yaml:"corrections"` // appended to the built-in table
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads environment variables from .env files if they exist.
// Variables already set in the environment are not overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			MaxUploadBytes:   10 << 20,
			MaxConnections:   64,
		},
		Pipeline: PipelineConfig{
			Preprocessing:   true,
			SpellCorrection: false,
			Languages:       []string{"eng"},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "labscan",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}

	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("%w: max_connections must not be negative", ErrInvalidConfig)
	}

	if len(c.Pipeline.Languages) == 0 {
		return fmt.Errorf("%w: at least one OCR language is required", ErrInvalidConfig)
	}

	if _, err := c.Table(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.Observability.LogFormat)
	}

	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Table returns the built-in correction table extended with the configured
// corrections.
func (c *Config) Table() (normalize.Table, error) {
	return normalize.DefaultTable().With(c.Pipeline.Corrections...)
}

// Speller returns the dictionary at DictionaryPath, or the built-in
// dictionary when no path is configured.
func (c *Config) Speller() (*normalize.Dictionary, error) {
	if c.Pipeline.DictionaryPath == "" {
		return normalize.DefaultDictionary(), nil
	}

	f, err := os.Open(c.Pipeline.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d, err := normalize.LoadDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("load dictionary %s: %w", c.Pipeline.DictionaryPath, err)
	}
	return d, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LABSCAN_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("LABSCAN_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LABSCAN_PORT %q", ErrInvalidConfig, v)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("LABSCAN_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: LABSCAN_MAX_UPLOAD_BYTES %q", ErrInvalidConfig, v)
		}
		cfg.Server.MaxUploadBytes = n
	}

	if v := os.Getenv("LABSCAN_PREPROCESSING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LABSCAN_PREPROCESSING %q", ErrInvalidConfig, v)
		}
		cfg.Pipeline.Preprocessing = b
	}

	if v := os.Getenv("LABSCAN_SPELL_CORRECTION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LABSCAN_SPELL_CORRECTION %q", ErrInvalidConfig, v)
		}
		cfg.Pipeline.SpellCorrection = b
	}

	if v := os.Getenv("LABSCAN_DICTIONARY"); v != "" {
		cfg.Pipeline.DictionaryPath = v
	}

	if v := os.Getenv("LABSCAN_LANGUAGES"); v != "" {
		var langs []string
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		cfg.Pipeline.Languages = langs
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	return nil
}
