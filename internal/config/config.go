// Package config loads the service configuration from YAML, .env and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"momo-engine/internal/logging"
	"momo-engine/internal/loyalty"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "momo-engine.yaml"

type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Logging      logging.Config `yaml:"logging"`
	Catalog      CatalogConfig  `yaml:"catalog"`
	DefaultTiers []loyalty.Tier `yaml:"default_tiers"`
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
}

// CatalogConfig points at the service holding each business's tier list.
// An empty BaseURL disables remote lookups.
type CatalogConfig struct {
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	CacheSize   int    `yaml:"cache_size"`
	Concurrency int    `yaml:"concurrency"`
	// FailureTTL is how long a failed lookup is remembered before retrying.
	FailureTTL  string `yaml:"failure_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  "10s",
			WriteTimeout: "10s",
		},
		Logging: logging.DefaultConfig(),
		Catalog: CatalogConfig{
			Timeout:     "2s",
			CacheSize:   1024,
			Concurrency: 8,
			FailureTTL:  "30s",
		},
		DefaultTiers: loyalty.DefaultTiers(),
	}
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if url := os.Getenv("TIER_CATALOG_URL"); url != "" {
		c.Catalog.BaseURL = strings.TrimRight(url, "/")
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port not configured (set server.port or PORT)")
	}
	for name, d := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"catalog.timeout":      c.Catalog.Timeout,
		"catalog.failure_ttl":  c.Catalog.FailureTTL,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
	}
	if c.Catalog.CacheSize <= 0 {
		return fmt.Errorf("catalog.cache_size must be positive, got %d", c.Catalog.CacheSize)
	}
	if c.Catalog.Concurrency <= 0 {
		return fmt.Errorf("catalog.concurrency must be positive, got %d", c.Catalog.Concurrency)
	}
	if err := loyalty.Validate(c.DefaultTiers); err != nil {
		return fmt.Errorf("invalid default_tiers: %w", err)
	}
	return nil
}

func (c *Config) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

func (c *Config) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

func (c *Config) GetCatalogTimeout() time.Duration {
	d, err := time.ParseDuration(c.Catalog.Timeout)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

func (c *Config) GetCatalogFailureTTL() time.Duration {
	d, err := time.ParseDuration(c.Catalog.FailureTTL)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
