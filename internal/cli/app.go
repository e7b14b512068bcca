package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App holds the wired components every command starts from.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	// Store is the instrumented record store the engine writes through.
	Store  ports.RecordStore
	Engine *intake.Engine

	registry *prometheus.Registry
	closer   io.Closer
}

// NewApp opens the configured store and builds the engine on top of it.
// hooks run after the logging and metrics hooks, in order.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*App, error) {
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Log); err != nil {
			return nil, err
		}
	}

	raw, closer, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger, closer: closer}

	var metrics *observability.Metrics
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if cfg.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(app.registry)
		mws = append(mws, middleware.NewMetricsMiddleware(metrics))
	}
	app.Store = middleware.Chain(raw, mws...)

	hooks = append([]domain.LifecycleHooks{observability.Hooks(logger, metrics)}, hooks...)
	engine, err := intake.New(app.Store,
		intake.WithLogger(logger),
		intake.WithLifecycleHooks(observability.Combine(hooks...)),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine

	logger.Debug("app initialized", "backend", cfg.Store.Backend, "metrics", cfg.Metrics.Enabled)
	return app, nil
}

// MetricsHandler serves the registry, or returns nil when metrics are disabled.
func (a *App) MetricsHandler() http.Handler {
	if a.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
}

// Close releases the store connections.
func (a *App) Close() error {
	return a.closer.Close()
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Format), nil
}
