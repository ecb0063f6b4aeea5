package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to key names for environment variable lookup.
// For example, key "store.backend" maps to SAFEPLATES_STORE_BACKEND.
const EnvPrefix = "SAFEPLATES_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StoreConfig selects and configures the checkpoint backend.
type StoreConfig struct {
	// Backend is one of: memory, sqlite, redis.
	Backend string `yaml:"backend"`

	// Path is the database file for the sqlite backend.
	Path string `yaml:"path"`

	// URL is the connection URL for the redis backend.
	URL string `yaml:"url"`

	// TTL is the session retention period for the redis backend.
	TTL time.Duration `yaml:"ttl"`
}

// LLMConfig configures the generation capability.
type LLMConfig struct {
	// Model is the completion model name.
	Model string `yaml:"model"`

	// APIKey authenticates against the provider. Usually supplied via
	// SAFEPLATES_LLM_API_KEY or OPENAI_API_KEY rather than the file.
	APIKey string `yaml:"apiKey"`
}

// Config is the full SafePlates configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	LLM   LLMConfig   `yaml:"llm"`

	// Categories is the allergen category list the classifier checks.
	Categories []string `yaml:"categories"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendMemory,
			Path:    "safeplates.db",
			TTL:     40 * time.Minute,
		},
		LLM: LLMConfig{
			Model: "gpt-4",
		},
		Categories: []string{"nuts", "dairy", "gluten", "shellfish", "eggs"},
	}
}

// Load reads the config file at path, layered over the defaults and
// under environment overrides. A missing file is not an error; defaults
// and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendSQLite && c.Store.Path == "" {
		return fmt.Errorf("sqlite backend requires store.path")
	}
	if c.Store.Backend == BackendRedis && c.Store.URL == "" {
		return fmt.Errorf("redis backend requires store.url")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one allergen category is required")
	}
	return nil
}

// applyEnv overrides config fields from SAFEPLATES_* variables.
func applyEnv(cfg *Config) error {
	if v := envValue("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := envValue("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := envValue("STORE_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := envValue("STORE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sSTORE_TTL: %w", EnvPrefix, err)
		}
		cfg.Store.TTL = d
	}
	if v := envValue("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := envValue("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := envValue("CATEGORIES"); v != "" {
		parts := strings.Split(v, ",")
		categories := parts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				categories = append(categories, p)
			}
		}
		if len(categories) > 0 {
			cfg.Categories = categories
		}
	}
	return nil
}

func envValue(key string) string {
	return os.Getenv(EnvPrefix + key)
}
