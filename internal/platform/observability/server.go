// Package observability provides prometheus metrics and the HTTP server that
// exposes health, metrics and the dashboard API.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// RouteRegistrar attaches handlers to the server's mux.
type RouteRegistrar interface {
	Routes(mux *http.ServeMux)
}

// Server hosts /healthz, /metrics and any registered API routes.
type Server struct {
	port   int
	api    RouteRegistrar
	logger *zerolog.Logger
}

// NewServer creates a Server. api may be nil for a bare health endpoint.
func NewServer(port int, api RouteRegistrar, logger *zerolog.Logger) *Server {
	return &Server{port: port, api: api, logger: logger}
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.Handler())

	if s.api != nil {
		s.api.Routes(mux)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("HTTP server starting")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
