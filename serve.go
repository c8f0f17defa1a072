package doguda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ServeOptions configures the standalone API server.
type ServeOptions struct {
	// Addr is the listen address. Defaults to 0.0.0.0:8000 when empty.
	Addr string

	// Prefix is the route prefix for command endpoints. Defaults to
	// DefaultPrefix when empty.
	Prefix string

	// EnableMetrics exposes the app's Prometheus registry at /metrics.
	EnableMetrics bool

	// EnableHealthz exposes a trivial liveness endpoint at /healthz.
	EnableHealthz bool
}

// Serve runs the HTTP surface until ctx is cancelled, then shuts the server
// down gracefully. Registration must be complete before Serve is called.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	addr := opts.Addr
	if addr == "" {
		addr = "0.0.0.0:8000"
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	mux := http.NewServeMux()
	a.addRoutes(mux, prefix)
	if opts.EnableMetrics {
		mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{}))
	}
	if opts.EnableHealthz {
		mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
	}

	server := &http.Server{
		Addr:    addr,
		Handler: a.logRequests(mux),
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("api server listening",
			zap.String("addr", server.Addr),
			zap.String("prefix", prefix),
			zap.Int("commands", len(a.order)),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("api server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("api server shutdown error", zap.Error(err))
			return err
		}
		a.logger.Info("api server stopped")
		return nil
	}
}

// statusRecorder captures the status code written by a downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
