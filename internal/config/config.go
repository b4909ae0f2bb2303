// Package config provides configuration management for the server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// ServerName and ServerVersion identify this server to protocol clients and
// on the health endpoint.
const (
	ServerName    = "stockdata-mcp"
	ServerVersion = "1.0.0"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds transport-related configuration.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig holds upstream provider configuration.
type UpstreamConfig struct {
	QuoteBaseURL  string        `mapstructure:"quote_base_url"`
	SearchBaseURL string        `mapstructure:"search_base_url"`
	ChartBaseURL  string        `mapstructure:"chart_base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UserAgent     string        `mapstructure:"user_agent"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	QuoteTTL      time.Duration `mapstructure:"quote_ttl"`
	SearchTTL     time.Duration `mapstructure:"search_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockdata-mcp"
	}
	return filepath.Join(home, ".config", "stockdata-mcp")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 3000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("upstream.quote_base_url", "https://query1.finance.yahoo.com/v7/finance/quote")
	v.SetDefault("upstream.search_base_url", "https://query1.finance.yahoo.com/v1/finance/search")
	v.SetDefault("upstream.chart_base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.user_agent", ServerName+"/"+ServerVersion)
	v.SetDefault("upstream.retry_attempts", 1)

	v.SetDefault("cache.quote_ttl", 5*time.Minute)
	v.SetDefault("cache.search_ttl", 30*time.Minute)
	v.SetDefault("cache.sweep_interval", time.Duration(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", false)
	v.SetDefault("log.file_path", filepath.Join(DefaultConfigDir(), "logs", "server.log"))
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKDATA_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
	if v := os.Getenv("STOCKDATA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STOCKDATA_USER_AGENT"); v != "" {
		cfg.Upstream.UserAgent = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be between 1 and 65535, got %d", c.Server.HTTPPort)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.RetryAttempts < 1 {
		return fmt.Errorf("upstream.retry_attempts must be at least 1, got %d", c.Upstream.RetryAttempts)
	}
	if c.Cache.QuoteTTL <= 0 || c.Cache.SearchTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}
