// Package config loads the service configuration from a YAML or JSON file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fleetsense/autocare/core/estimate"
	"github.com/fleetsense/autocare/core/metrics"
	"github.com/fleetsense/autocare/infra/mqtt"
)

// Config is the root configuration of the service.
type Config struct {
	Server    ServerConfig            `json:"server"`
	Auth      AuthConfig              `json:"auth"`
	Storage   StorageConfig           `json:"storage"`
	Models    ModelsConfig            `json:"models"`
	Intervals estimate.IntervalConfig `json:"intervals"`
	Metrics   metrics.Config          `json:"metrics"`
	MQTT      mqtt.Config             `json:"mqtt"`
	Logging   LoggingConfig           `json:"logging"`
}

// LoggingConfig controls the global log level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// AuthConfig defines token issuing parameters.
type AuthConfig struct {
	JWTSecret   string `json:"jwt_secret"`
	TokenTTLMin int    `json:"token_ttl_min"`
}

// StorageConfig locates the database and the seed catalog.
type StorageConfig struct {
	Path        string `json:"path"`
	CatalogSeed string `json:"catalog_seed"`
}

// ModelsConfig locates the trained predictor artifacts.
type ModelsConfig struct {
	Dir string `json:"dir"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Auth.TokenTTLMin <= 0 {
		c.Auth.TokenTTLMin = 24 * 60
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "autocare.db"
	}
	if c.Models.Dir == "" {
		c.Models.Dir = "models"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	if c.Metrics.InfluxEnabled && c.Metrics.InfluxURL == "" {
		return fmt.Errorf("metrics.influx_url is required when influx is enabled")
	}
	return nil
}

// Load reads the configuration file at path, applies AUTOCARE_* environment
// overrides, then fills defaults and validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. AUTOCARE_AUTH__JWT_SECRET.
	if err := k.Load(env.Provider("AUTOCARE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "autocare_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
