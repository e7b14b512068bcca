package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. INTAKE_STORE_BACKEND.
const EnvPrefix = "INTAKE"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"store-addr":     "http.store_addr",
	"wizard-addr":    "http.wizard_addr",
	"store":          "store.backend",
	"sqlite-path":    "store.sqlite.path",
	"postgres-dsn":   "store.postgres.dsn",
	"redis-addr":     "store.redis.addr",
	"redis-password": "store.redis.password",
	"redis-db":       "store.redis.db",
	"redis-prefix":   "store.redis.prefix",
	"remote-url":     "store.remote.url",
	"remote-timeout": "store.remote.timeout",
	"metrics":        "metrics.enabled",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("http.store_addr", ":3005")
	v.SetDefault("http.wizard_addr", ":3000")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite.path", "")
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "intake:application:")
	v.SetDefault("store.remote.url", "http://localhost:3005")
	v.SetDefault("store.remote.timeout", "10s")
	v.SetDefault("metrics.enabled", false)
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config file. When empty, intake.yaml is searched
	// for in the working directory and ./configs, and is optional.
	File string
	// EnvFile is loaded into the environment before reading overrides.
	// Missing files are ignored, malformed ones fail Load. Defaults to .env.
	EnvFile string
	// Flags whose names appear in flagKeys override every other source
	// when they were set on the command line.
	Flags *pflag.FlagSet
}

// Load resolves the configuration from defaults, the config file, the
// environment and flags, in increasing order of precedence.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("intake")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDatabaseURL(&cfg, os.Getenv("DATABASE_URL"))
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyDatabaseURL fills the SQL settings from DATABASE_URL when they were
// left empty. sqlite: URLs name a database file.
func applyDatabaseURL(cfg *Config, url string) {
	switch {
	case url == "":
	case strings.HasPrefix(url, "sqlite:"):
		if cfg.Store.SQLite.Path == "" {
			path := strings.TrimPrefix(strings.TrimPrefix(url, "sqlite:"), "//")
			cfg.Store.SQLite.Path, _, _ = strings.Cut(path, "?")
		}
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		if cfg.Store.Postgres.DSN == "" {
			cfg.Store.Postgres.DSN = url
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "intake.db"
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	if cfg.Store.Backend == "postgresql" {
		cfg.Store.Backend = BackendPostgres
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
}
