package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/adapters/redis"
	intakesql "github.com/aretw0/intake/pkg/adapters/sql"
	"github.com/aretw0/intake/pkg/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore creates the record store selected by cfg. The returned closer
// releases its connections.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.RecordStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nopCloser{}, nil

	case config.BackendSQLite:
		store, err := intakesql.Open(ctx, intakesql.SQLite, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		return store, store, nil

	case config.BackendPostgres:
		store, err := intakesql.Open(ctx, intakesql.Postgres, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening postgres store: %w", err)
		}
		return store, store, nil

	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store, nil

	case config.BackendRemote:
		return http.NewClient(cfg.Remote.URL, http.WithTimeout(cfg.Remote.Timeout)), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
