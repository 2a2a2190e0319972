// Package http exposes the resolver over HTTP: the resolve endpoint
// consumed by the page editor plus health and metrics endpoints.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tonelink/internal/core"
	"tonelink/internal/resolver"
)

// MusicResolver is the resolver surface the server depends on.
type MusicResolver interface {
	Resolve(ctx context.Context, rawURL string) (*resolver.ResultData, error)
}

type Server struct {
	config   *core.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	metrics  *Metrics
	resolver MusicResolver
}

type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	PlatformMatches  *prometheus.CounterVec
	ResolveDuration  prometheus.Histogram
	CacheableErrors  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tonelink_resolutions_total",
				Help: "Total number of resolution requests",
			},
			[]string{"outcome"},
		),
		PlatformMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tonelink_platform_matches_total",
				Help: "Per-platform match outcomes of successful resolutions",
			},
			[]string{"platform", "outcome"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tonelink_resolve_duration_seconds",
				Help:    "Time spent resolving a track URL",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheableErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tonelink_resolution_errors_total",
				Help: "Resolution failures by error class",
			},
			[]string{"class"},
		),
	}

	reg.MustRegister(
		metrics.ResolutionsTotal,
		metrics.PlatformMatches,
		metrics.ResolveDuration,
		metrics.CacheableErrors,
	)

	return metrics
}

func NewServer(config *core.ServerConfig, musicResolver MusicResolver, logger *zap.Logger) *Server {
	return newServer(config, musicResolver, logger, prometheus.DefaultRegisterer, promhttp.Handler())
}

func newServer(
	config *core.ServerConfig,
	musicResolver MusicResolver,
	logger *zap.Logger,
	reg prometheus.Registerer,
	metricsHandler http.Handler,
) *Server {
	s := &Server{
		config:   config,
		logger:   logger,
		metrics:  newMetrics(reg),
		resolver: musicResolver,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tonelink"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready","service":"tonelink"}`))
	})

	mux.Handle("/metrics", metricsHandler)

	// The editor frontend historically calls through the /api prefix.
	mux.HandleFunc("/music/resolve", s.handleResolve)
	mux.HandleFunc("/api/music/resolve", s.handleResolve)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
