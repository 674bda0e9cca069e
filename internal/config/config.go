// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides, e.g. CONSOLE_DATABASE_URL.
const EnvPrefix = "CONSOLE"

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr" envconfig:"ADDR"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" envconfig:"SHUTDOWN_GRACE"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"` // empty disables the metrics listener
}

type LogConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`       // trace|debug|info|warn|error
	Format   string `yaml:"format" envconfig:"FORMAT"`     // json|console
	Sampling bool   `yaml:"sampling" envconfig:"SAMPLING"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url" envconfig:"URL"`
	MaxConns int32  `yaml:"max_conns" envconfig:"MAX_CONNS"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" envconfig:"URL"` // empty disables caching and rate limiting
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
	UserTTL  time.Duration `yaml:"user_ttl" envconfig:"USER_TTL"` // session user lookups
}

type AuthConfig struct {
	Secret       string        `yaml:"secret" envconfig:"SECRET"`
	CookieDomain string        `yaml:"cookie_domain" envconfig:"COOKIE_DOMAIN"`
	SecureCookie bool          `yaml:"secure_cookie" envconfig:"SECURE_COOKIE"`
	TTL          time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type DownloadConfig struct {
	// RateLimit is the number of downloads a user may start per RateWindow. Zero disables it.
	RateLimit  int           `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	RateWindow time.Duration `yaml:"rate_window" envconfig:"RATE_WINDOW"`
}

type I18nConfig struct {
	Lang string `yaml:"lang" envconfig:"LANG"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"AUTH"`
	Download DownloadConfig `yaml:"download" envconfig:"DOWNLOAD"`
	I18n     I18nConfig     `yaml:"i18n" envconfig:"I18N"`

	Runtime RuntimeConfig `yaml:"-" ignored:"true"`
}

// LoadConfig reads the YAML file at path, applies CONSOLE_* environment overrides,
// fills defaults and validates the result. A missing file is only an error when the
// environment does not supply the required settings either.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 30 * time.Second
	}
	if cfg.HTTP.ShutdownGrace <= 0 {
		cfg.HTTP.ShutdownGrace = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL, time.Hour)
	cfg.Redis.UserTTL = normalizeTTL(cfg.Redis.UserTTL, 30*time.Second)
	cfg.Auth.TTL = normalizeTTL(cfg.Auth.TTL, 30*time.Minute)
	if cfg.Download.RateWindow <= 0 {
		cfg.Download.RateWindow = time.Minute
	}
	if cfg.I18n.Lang == "" {
		cfg.I18n.Lang = "en"
	}
}

// Validate checks the settings the console cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if len(c.Auth.Secret) < 16 {
		return errors.New("auth.secret must be at least 16 characters")
	}
	if c.Download.RateLimit < 0 {
		return errors.New("download.rate_limit must not be negative")
	}
	return nil
}

func normalizeTTL(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
