package config

import (
	"fmt"
	"slices"
	"time"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendRemote   = "remote"
)

// Backends lists the accepted store backends.
func Backends() []string {
	return []string{BackendMemory, BackendSQLite, BackendPostgres, BackendRedis, BackendRemote}
}

// Config is the process configuration shared by every command.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	StoreAddr  string `mapstructure:"store_addr"`
	WizardAddr string `mapstructure:"wizard_addr"`
}

type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Remote   RemoteConfig   `mapstructure:"remote"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RemoteConfig points the wizard at a separately deployed record store API.
type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Validate checks the settings the selected backend depends on.
func (c *Config) Validate() error {
	if !slices.Contains(Backends(), c.Store.Backend) {
		return fmt.Errorf("store.backend %q is not one of %v", c.Store.Backend, Backends())
	}
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required")
		}
	case BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required (or set DATABASE_URL)")
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required")
		}
	case BackendRemote:
		if c.Store.Remote.URL == "" {
			return fmt.Errorf("store.remote.url is required")
		}
		if c.Store.Remote.Timeout <= 0 {
			return fmt.Errorf("store.remote.timeout must be positive")
		}
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}
	return nil
}
