package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "bclub/backend/libs/config"
)

// Config represents service configuration loaded from .env/YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"COUNTER_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"COUNTER_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"COUNTER_POSTGRES_MAX_OPEN_CONNS"`
		AutoMigrate  bool   `yaml:"autoMigrate" env:"COUNTER_AUTO_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" env:"COUNTER_REDIS_ADDR"`
		Password   string `yaml:"password" env:"COUNTER_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"COUNTER_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"COUNTER_REDIS_TTL"`
	} `yaml:"redis"`
	JWT struct {
		Secret string `yaml:"secret" env:"COUNTER_JWT_SECRET"`
	} `yaml:"jwt"`
	Venue struct {
		Timezone string   `yaml:"timezone" env:"COUNTER_TIMEZONE"`
		Currency string   `yaml:"currency" env:"COUNTER_CURRENCY"`
		Tables   []string `yaml:"tables" env:"COUNTER_TABLES"`
	} `yaml:"venue"`
	Live struct {
		Interval     time.Duration `yaml:"interval" env:"COUNTER_LIVE_INTERVAL"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"COUNTER_LIVE_WRITE_TIMEOUT"`
	} `yaml:"live"`

	location *time.Location
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	cfg.Database.AutoMigrate = true
	cfg.Redis.TTLSeconds = 86400
	cfg.Venue.Timezone = "Africa/Tunis"
	cfg.Venue.Currency = "DT"
	cfg.Venue.Tables = []string{"A", "B"}
	cfg.Live.Interval = 2 * time.Second
	cfg.Live.WriteTimeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis db %d must not be negative", c.Redis.DB)
	}
	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = 86400
	}
	if c.Live.Interval <= 0 {
		return fmt.Errorf("config: live interval %s must be positive", c.Live.Interval)
	}

	tables := make([]string, 0, len(c.Venue.Tables))
	for _, t := range c.Venue.Tables {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return errors.New("config: at least one table is required")
	}
	c.Venue.Tables = tables

	loc, err := time.LoadLocation(strings.TrimSpace(c.Venue.Timezone))
	if err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Venue.Timezone, err)
	}
	c.location = loc
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8081"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// RedisEnabled reports whether the shared table claim store is configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// RedisTTL converts the claim expiry to a duration.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// Location returns the venue time zone, UTC before validation.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
