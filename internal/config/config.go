package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the catalog binaries.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Latency  LatencyConfig  `mapstructure:"latency"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	History  HistoryConfig  `mapstructure:"history"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// TrustProxy honors X-Forwarded-For for rate limiting. Set it only
	// behind a proxy that overwrites the header.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LatencyConfig scales the simulated delays. 0 turns them off.
type LatencyConfig struct {
	Scale float64 `mapstructure:"scale"`
}

type CatalogConfig struct {
	FilterByCategory bool `mapstructure:"filter_by_category"`
}

// History backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type HistoryConfig struct {
	Backend    string `mapstructure:"backend"`
	Limit      int    `mapstructure:"limit"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

// Load reads configuration from path, or from an optional config.yaml in the
// working directory when path is empty. Environment variables override file
// values, with dots replaced by underscores (HISTORY_BACKEND, REDIS_HOST, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.History.Backend {
	case BackendMemory, BackendSQLite, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown history backend %q", c.History.Backend)
	}
	if c.Latency.Scale < 0 {
		return fmt.Errorf("latency.scale must not be negative, got %v", c.Latency.Scale)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("log.level", "info")

	v.SetDefault("latency.scale", 1.0)

	v.SetDefault("catalog.filter_by_category", false)

	v.SetDefault("history.backend", BackendMemory)
	v.SetDefault("history.limit", 20)
	v.SetDefault("history.sqlite_path", "catalog-history.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog")
	v.SetDefault("database.user", "catalog")
	v.SetDefault("database.password", "catalog")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("session.secret", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.token", "")
}
