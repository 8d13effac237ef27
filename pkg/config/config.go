package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Upstream struct {
		BaseURL              string        `yaml:"base_url"`
		Timeout              time.Duration `yaml:"timeout"`
		ExchangeSuffix       string        `yaml:"exchange_suffix"`
		IntradayLookbackDays int           `yaml:"intraday_lookback_days"`
		RateCapacity         float64       `yaml:"rate_capacity"`
		RateRefillPerSec     float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"upstream"`
	Engine struct {
		RSIPeriod     int `yaml:"rsi_period"`
		EMAPeriod     int `yaml:"ema_period"`
		SMAPeriod     int `yaml:"sma_period"`
		ExtremaWindow int `yaml:"extrema_window"`
	} `yaml:"engine"`
	Cache struct {
		Enabled       bool          `yaml:"enabled"`
		TTL           time.Duration `yaml:"ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Archive struct {
		Enabled    bool `yaml:"enabled"`
		ClickHouse struct {
			Host        string        `yaml:"host"`
			Port        int           `yaml:"port"`
			Database    string        `yaml:"database"`
			User        string        `yaml:"user"`
			Password    string        `yaml:"password"`
			DialTimeout time.Duration `yaml:"dial_timeout"`
			ReadTimeout time.Duration `yaml:"read_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"archive"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Archive.ClickHouse.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 15 * time.Second
	}
	if c.Upstream.ExchangeSuffix == "" {
		c.Upstream.ExchangeSuffix = ".NS"
	}
	if c.Upstream.IntradayLookbackDays == 0 {
		c.Upstream.IntradayLookbackDays = 60
	}
	if c.Upstream.RateCapacity == 0 {
		c.Upstream.RateCapacity = 10
	}
	if c.Upstream.RateRefillPerSec == 0 {
		c.Upstream.RateRefillPerSec = 2
	}
	if c.Engine.RSIPeriod == 0 {
		c.Engine.RSIPeriod = 14
	}
	if c.Engine.EMAPeriod == 0 {
		c.Engine.EMAPeriod = 20
	}
	if c.Engine.SMAPeriod == 0 {
		c.Engine.SMAPeriod = 50
	}
	if c.Engine.ExtremaWindow == 0 {
		c.Engine.ExtremaWindow = 252
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60 * time.Second
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Engine.RSIPeriod < 2 {
		return fmt.Errorf("engine.rsi_period must be >= 2")
	}
	if c.Engine.EMAPeriod < 1 || c.Engine.SMAPeriod < 1 || c.Engine.ExtremaWindow < 1 {
		return fmt.Errorf("engine periods must be >= 1")
	}
	if c.Archive.Enabled && c.Archive.ClickHouse.Host == "" {
		return fmt.Errorf("archive.clickhouse.host is required when archive is enabled")
	}
	return nil
}
