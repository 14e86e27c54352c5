// Package config loads CLI and server settings from a YAML file and TDS_*
// environment variables. Environment values override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/tds/internal/logging"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "tds.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds every setting of the tds binary.
//
// Zones and Personas select catalog sources: empty for the embedded catalogs, an
// http(s) URL, a directory (Loam repository) or a JSON/YAML file.
type Config struct {
	Zones          string      `yaml:"zones" env:"TDS_ZONES"`
	Personas       string      `yaml:"personas" env:"TDS_PERSONAS"`
	QuestionsFile  string      `yaml:"questions_file" env:"TDS_QUESTIONS"`
	Focus          string      `yaml:"focus" env:"TDS_FOCUS"`
	Watch          bool        `yaml:"watch" env:"TDS_WATCH"`
	Store          string      `yaml:"store" env:"TDS_STORE"`
	StorePath      string      `yaml:"store_path" env:"TDS_STORE_PATH"`
	Redis          RedisConfig `yaml:"redis"`
	Addr           string      `yaml:"addr" env:"TDS_ADDR"`
	AllowedOrigins []string    `yaml:"allowed_origins" env:"TDS_ALLOWED_ORIGINS" envSeparator:","`
	Log            LogConfig   `yaml:"log"`
}

// RedisConfig configures the redis result store.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"TDS_REDIS_ADDR"`
	Password string        `yaml:"password" env:"TDS_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"TDS_REDIS_DB"`
	Prefix   string        `yaml:"prefix" env:"TDS_REDIS_PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"TDS_REDIS_TTL"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level" env:"TDS_LOG_LEVEL"`
	Format string `yaml:"format" env:"TDS_LOG_FORMAT"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Store:     StoreMemory,
		StorePath: ".tds",
		Addr:      ":8080",
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Log:       LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path (DefaultFile when empty), then applies the environment and
// validates the result. A missing file is not an error unless path was given
// explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid store %q: want memory, file or redis", c.Store)
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		return errors.New("redis store requires redis.addr")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.Log.Format)
	}
	return nil
}
