package config

import (
	"time"

	"github.com/spf13/pflag"
)

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// mirror setDefaults; an unset flag never overrides the file or environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: ./intake.yaml if present)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("store-addr", ":3005", "listen address of the record store API")
	fs.String("wizard-addr", ":3000", "listen address of the wizard API")
	fs.String("store", BackendMemory, "record store backend: memory, sqlite, postgres, redis, remote")
	fs.String("sqlite-path", "intake.db", "SQLite database file")
	fs.String("postgres-dsn", "", "PostgreSQL connection string (default: $DATABASE_URL)")
	fs.String("redis-addr", "localhost:6379", "Redis address")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database number")
	fs.String("redis-prefix", "intake:application:", "Redis key prefix")
	fs.String("remote-url", "http://localhost:3005", "base URL of a remote record store API")
	fs.Duration("remote-timeout", 10*time.Second, "request timeout for the remote record store")
	fs.Bool("metrics", false, "expose Prometheus metrics at /metrics")
}
