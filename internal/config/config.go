// Package config loads runtime settings from a YAML file, the environment and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultConfigFile = "headlines.yaml"
	redacted          = "********"
	maxPageSize       = 100
)

// Config holds runtime settings for the CLI app.
// Sources, highest priority first:
//  1. explicit path (--config);
//  2. CONFIG_PATH;
//  3. ./headlines.yaml;
//  4. environment only.
//
// Flags passed on the command line override whatever was loaded.
type Config struct {
	Env    string      `yaml:"env" env:"ENV" env-default:"local"`
	API    APIConfig   `yaml:"api"`
	Feed   FeedConfig  `yaml:"feed"`
	DB     DBConfig    `yaml:"db"`
	Log    LogConfig   `yaml:"log"`
	Images ImageConfig `yaml:"images"`
	Links  LinksConfig `yaml:"links"`
}

type APIConfig struct {
	Key     string        `yaml:"key"      env:"NEWSAPI_KEY"      env-required:"true"`
	BaseURL string        `yaml:"base_url" env:"NEWSAPI_BASE_URL" env-default:"https://newsapi.org/v2"`
	Country string        `yaml:"country"  env:"NEWSAPI_COUNTRY"  env-default:"us"`
	Timeout time.Duration `yaml:"timeout"  env:"NEWSAPI_TIMEOUT"  env-default:"10s"`
}

type FeedConfig struct {
	PageSize       int           `yaml:"page_size"        env:"FEED_PAGE_SIZE"        env-default:"20"`
	Debounce       time.Duration `yaml:"debounce"         env:"FEED_DEBOUNCE"         env-default:"1s"`
	MinQueryLength int           `yaml:"min_query_length" env:"FEED_MIN_QUERY_LENGTH" env-default:"3"`
}

type DBConfig struct {
	Path string `yaml:"path" env:"HEADLINES_DB_PATH" env-default:"headlines.db"`
}

type LogConfig struct {
	// File receives log records; "-" discards them.
	File string `yaml:"file" env:"HEADLINES_LOG_FILE" env-default:"headlines.log"`
}

type ImageConfig struct {
	MaxBytes int64         `yaml:"max_bytes" env:"IMAGES_MAX_BYTES" env-default:"33554432"`
	TTL      time.Duration `yaml:"ttl"       env:"IMAGES_TTL"       env-default:"1h"`
}

type LinksConfig struct {
	RateApp       string `yaml:"rate_app"       env:"LINK_RATE_APP"       env-default:"https://github.com/glabrego/headlines-cli"`
	PrivacyPolicy string `yaml:"privacy_policy" env:"LINK_PRIVACY_POLICY" env-default:"https://newsapi.org/privacy"`
	TermsOfUse    string `yaml:"terms_of_use"   env:"LINK_TERMS_OF_USE"   env-default:"https://newsapi.org/terms"`
}

// Load reads configuration by priority and validates it.
func Load(path string) (*Config, error) {
	var cfg Config

	switch {
	case path != "":
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
			return nil, err
		}
	case fileExists(defaultConfigFile):
		if err := readFile(defaultConfigFile, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, %s or env vars: %w", defaultConfigFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	if !fileExists(path) {
		return fmt.Errorf("config file does not exist: %s", path)
	}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("env must be one of local, dev, prod: %s", c.Env)
	}
	if c.API.Key == "" {
		return errors.New("api.key is required (NEWSAPI_KEY)")
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if strings.HasSuffix(c.API.BaseURL, "/") {
		return fmt.Errorf("api.base_url must not end with '/': %s", c.API.BaseURL)
	}
	if c.API.Country == "" {
		return errors.New("api.country is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if c.Feed.PageSize < 1 || c.Feed.PageSize > maxPageSize {
		return fmt.Errorf("feed.page_size must be between 1 and %d: %d", maxPageSize, c.Feed.PageSize)
	}
	if c.Feed.Debounce <= 0 {
		return errors.New("feed.debounce must be > 0")
	}
	if c.Feed.MinQueryLength < 1 {
		return errors.New("feed.min_query_length must be >= 1")
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Images.MaxBytes < 0 {
		return errors.New("images.max_bytes must be >= 0")
	}
	if c.Images.TTL < 0 {
		return errors.New("images.ttl must be >= 0")
	}
	return nil
}

// YAML renders c in the config file format with the API key redacted.
func (c Config) YAML() ([]byte, error) {
	if c.API.Key != "" {
		c.API.Key = redacted
	}
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
