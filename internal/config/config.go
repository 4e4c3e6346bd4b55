package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	StorageType string `mapstructure:"storage_type"`
	BBoltPath   string `mapstructure:"bbolt_path"`

	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	FetchUserAgent      string        `mapstructure:"fetch_user_agent"`
	FetchProxyPrefix    string        `mapstructure:"fetch_proxy_prefix"`
	FetchMaxBodyBytes   int           `mapstructure:"fetch_max_body_bytes"`

	PublishersFile          string        `mapstructure:"publishers_file"`
	DispatchIntervalSeconds int64         `mapstructure:"dispatch_interval_seconds"`
	DispatchInterval        time.Duration `mapstructure:"-"`
	DispatchConcurrency     int           `mapstructure:"dispatch_concurrency"`
	MetricsAddr             string        `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-post-curator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/curator.db")
	v.SetDefault("fetch_timeout_seconds", 15)
	v.SetDefault("fetch_user_agent", "samvad-post-curator/1.0")
	v.SetDefault("fetch_proxy_prefix", "")
	v.SetDefault("fetch_max_body_bytes", 2<<20)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("dispatch_interval_seconds", 30)
	v.SetDefault("dispatch_concurrency", 4)
	v.SetDefault("metrics_addr", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.FetchMaxBodyBytes <= 0 {
		return fmt.Errorf("invalid fetch_max_body_bytes (must be positive)")
	}

	if cfg.DispatchIntervalSeconds <= 0 {
		return fmt.Errorf("invalid dispatch_interval_seconds (must be positive seconds)")
	}
	cfg.DispatchInterval = time.Duration(cfg.DispatchIntervalSeconds) * time.Second

	if cfg.DispatchConcurrency <= 0 {
		return fmt.Errorf("invalid dispatch_concurrency (must be positive)")
	}
	return nil
}
