package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/ragstack/pkg/observability"
)

// RequestIDHeader carries the request id in and out of the health server
const RequestIDHeader = "X-Request-ID"

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (c *Checker) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": c.now(),
	})
}

// Readiness checks all dependencies. Degraded still counts as ready.
func (c *Checker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := c.Check(r.Context())

	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
		observability.FromContext(r.Context()).
			WithField("failed", status.Failed()).
			Warn("readiness check failed")
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// RegisterRoutes registers health check endpoints on router
func RegisterRoutes(router *mux.Router, checker *Checker, registry *prometheus.Registry) {
	router.HandleFunc("/health", checker.Readiness).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", checker.Readiness).Methods(http.MethodGet)
	router.HandleFunc("/health/live", checker.Liveness).Methods(http.MethodGet)
	if registry != nil {
		router.Handle("/metrics", observability.Handler(registry)).Methods(http.MethodGet)
	}
}

// NewHandler builds the full health server handler: routes, request ids and
// OpenTelemetry HTTP instrumentation.
func NewHandler(checker *Checker, registry *prometheus.Registry, logger *observability.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware(logger))
	RegisterRoutes(router, checker, registry)
	return otelhttp.NewHandler(router, "ragstack.health")
}

func requestIDMiddleware(logger *observability.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := observability.WithRequestID(r.Context(), requestID)
			ctx = observability.WithLogger(ctx, observability.WithTraceContext(ctx, logger.WithFields(map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})))

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			observability.FromContext(ctx).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Debug("request served")
		})
	}
}

// ShutdownFunc is called once the HTTP server has stopped accepting requests
type ShutdownFunc func(context.Context) error

// Server is the health HTTP server
type Server struct {
	httpServer    *http.Server
	logger        *observability.Logger
	mu            sync.Mutex
	shutdownFuncs []ShutdownFunc
}

// OnShutdown registers fn to run during graceful shutdown
func (s *Server) OnShutdown(fn ShutdownFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownFuncs = append(s.shutdownFuncs, fn)
}

// NewServer creates a health server listening on addr
func NewServer(addr string, handler http.Handler, logger *observability.Logger) *Server {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully within
// shutdownTimeout. Registered shutdown funcs run concurrently once the server
// has stopped, including when it failed to listen.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("health server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if runErr == nil {
		s.logger.Info("shutting down health server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("http server shutdown failed: %w", err)
		} else {
			runErr = <-errCh
		}
	}

	return errors.Join(runErr, s.runShutdownFuncs(shutdownCtx))
}

func (s *Server) runShutdownFuncs(ctx context.Context) error {
	s.mu.Lock()
	funcs := append([]ShutdownFunc(nil), s.shutdownFuncs...)
	s.mu.Unlock()

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for i, fn := range funcs {
		i, fn := i, fn
		g.Go(func() error {
			if err := fn(ctx); err != nil {
				s.logger.WithError(err).Errorf("shutdown function %d failed", i)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %w", len(errs), errors.Join(errs...))
	}
	s.logger.Info("graceful shutdown complete")
	return nil
}
