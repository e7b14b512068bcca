package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ServerOption configures the HTTP handlers.
type ServerOption func(*serverConfig)

type serverConfig struct {
	logger  *slog.Logger
	metrics http.Handler
	app     string
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(c *serverConfig) {
		c.metrics = h
	}
}

func newServerConfig(app string, opts []ServerOption) serverConfig {
	cfg := serverConfig{
		logger: slog.New(slog.DiscardHandler),
		app:    app,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// newRouter builds the router shared by both APIs: middleware stack plus the
// health, info and OpenAPI document endpoints.
func newRouter(cfg serverConfig) (chi.Router, error) {
	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(cfg.logger))
	r.Use(enableCORS)

	r.Get("/health", getHealth)
	r.Get("/info", getInfo(cfg.app, doc))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	if cfg.metrics != nil {
		r.Handle("/metrics", cfg.metrics)
	}
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}

// getHealth handles the GET /health request.
func getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles the GET /info request.
func getInfo(app string, doc *openapi3.T) http.HandlerFunc {
	apiVersion := "unknown"
	if doc != nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"app":         app,
			"version":     strings.TrimSpace(intake.Version),
			"api_version": apiVersion,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// paramError reports path parameters the generated wrappers could not bind.
func paramError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, http.StatusBadRequest, codeInvalidPatch, err)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

// Error codes shared by the server and the client.
const (
	codeNotFound      = "not_found"
	codeCorrupt       = "corrupt_record"
	codeInvalidPatch  = "invalid_patch"
	codeInvalidAnswer = "invalid_answer"
	codeConflict      = "conflict"
	codeUnavailable   = "unavailable"
	codeInternal      = "internal"
)

// storeStatus maps record store errors for the store API.
func storeStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrCorruptRecord):
		return http.StatusInternalServerError, codeCorrupt
	case errors.Is(err, domain.ErrInvalidPatch),
		errors.Is(err, domain.ErrInvalidStep),
		errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusBadRequest, codeInvalidPatch
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable
	}
	return http.StatusInternalServerError, codeInternal
}

// wizardStatus maps engine errors for the wizard API.
func wizardStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrCorruptRecord):
		return http.StatusInternalServerError, codeCorrupt
	case errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity, codeInvalidAnswer
	case errors.Is(err, domain.ErrNoNextStep),
		errors.Is(err, domain.ErrStepMismatch),
		errors.Is(err, domain.ErrStepNotReached),
		errors.Is(err, domain.ErrSubmitted):
		return http.StatusConflict, codeConflict
	case errors.Is(err, domain.ErrInvalidStep), errors.Is(err, domain.ErrInvalidPatch):
		return http.StatusBadRequest, codeInvalidPatch
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusBadGateway, codeUnavailable
	}
	return http.StatusInternalServerError, codeInternal
}
