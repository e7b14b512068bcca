package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no intake.yaml or .env
// from the repository leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":3005", cfg.HTTP.StoreAddr)
	assert.Equal(t, ":3000", cfg.HTTP.WizardAddr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "intake.db", cfg.Store.SQLite.Path)
	assert.Equal(t, "intake:application:", cfg.Store.Redis.Prefix)
	assert.Equal(t, 10*time.Second, cfg.Store.Remote.Timeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intake.yaml"), []byte(`
log:
  level: debug
  format: json
store:
  backend: redis
  redis:
    addr: cache:6380
    db: 2
metrics:
  enabled: true
`), 0o600))

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{File: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intake.yaml"), []byte("store:\n  backend: sqlite\n"), 0o600))
	t.Setenv("INTAKE_STORE_BACKEND", "remote")
	t.Setenv("INTAKE_STORE_REMOTE_URL", "http://store.internal:3005")
	t.Setenv("INTAKE_STORE_REMOTE_TIMEOUT", "2s")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, cfg.Store.Backend)
	assert.Equal(t, "http://store.internal:3005", cfg.Store.Remote.URL)
	assert.Equal(t, 2*time.Second, cfg.Store.Remote.Timeout)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("INTAKE_LOG_LEVEL=warn\n"), 0o600))
	t.Setenv("INTAKE_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("INTAKE_LOG_LEVEL"))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INTAKE-LOG-LEVEL=warn\n"), 0o600))

	_, err := Load(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{EnvFile: filepath.Join(dir, "absent.env")})
	assert.NoError(t, err)
}

func TestLoad_FlagsWinWhenSet(t *testing.T) {
	isolate(t)
	t.Setenv("INTAKE_STORE_BACKEND", "redis")
	t.Setenv("INTAKE_HTTP_WIZARD_ADDR", ":9999")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--store", "sqlite", "--sqlite-path", "/tmp/x.db", "--metrics"}))

	cfg, err := Load(Options{Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.Store.SQLite.Path)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.HTTP.WizardAddr, "unset flags keep lower sources")
	assert.Equal(t, ":3005", cfg.HTTP.StoreAddr)
}

func TestLoad_DatabaseURL(t *testing.T) {
	isolate(t)

	t.Setenv("DATABASE_URL", "sqlite://data/applications.db?mode=rwc")
	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "data/applications.db", cfg.Store.SQLite.Path)

	t.Setenv("DATABASE_URL", "postgres://intake@db/intake?sslmode=disable")
	t.Setenv("INTAKE_STORE_BACKEND", "postgres")
	cfg, err = Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "postgres://intake@db/intake?sslmode=disable", cfg.Store.Postgres.DSN)

	t.Setenv("INTAKE_STORE_POSTGRES_DSN", "host=explicit")
	cfg, err = Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "host=explicit", cfg.Store.Postgres.DSN, "explicit settings beat DATABASE_URL")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:   LogConfig{Level: "info", Format: "text"},
			Store: StoreConfig{Backend: BackendMemory},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cases := map[string]func(*Config){
		"unknown backend": func(c *Config) { c.Store.Backend = "mongo" },
		"postgres no dsn": func(c *Config) { c.Store.Backend = BackendPostgres },
		"redis no addr":   func(c *Config) { c.Store.Backend = BackendRedis },
		"remote no url":   func(c *Config) { c.Store.Backend = BackendRemote },
		"remote no timeout": func(c *Config) {
			c.Store.Backend = BackendRemote
			c.Store.Remote.URL = "http://x"
		},
		"bad log format": func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
