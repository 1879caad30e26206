// Package config loads server settings from the environment and an
// optional tasks.{yaml,json,toml} file in the working directory.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Addr           string  `mapstructure:"addr"`
	UIAddr         string  `mapstructure:"ui_addr"`
	LogLevel       string  `mapstructure:"log_level"`
	Store          string  `mapstructure:"store"`
	SQLitePath     string  `mapstructure:"sqlite_path"`
	RedisAddr      string  `mapstructure:"redis_addr"`
	RedisPrefix    string  `mapstructure:"redis_prefix"`
	MongoURI       string  `mapstructure:"mongo_uri"`
	MongoDB        string  `mapstructure:"mongo_db"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TraceExporter  string  `mapstructure:"trace_exporter"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("ui_addr", ":3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("sqlite_path", "data/tasks.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "tasks")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "tasks")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("trace_exporter", "none")
}

// Load reads configuration. Environment variables (ADDR, LOG_LEVEL,
// STORE, ...) win over the config file, which wins over defaults.
// dirs lists where to look for the file; empty means ".".
func Load(dirs ...string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigName("tasks")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative")
	}
	return nil
}
