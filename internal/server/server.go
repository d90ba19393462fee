package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/eval/template"
	"github.com/aescanero/scheme-screener/internal/i18n"
	"github.com/aescanero/scheme-screener/internal/scheme"
	"github.com/aescanero/scheme-screener/internal/screening"
)

// Screener runs the two screening steps
type Screener interface {
	Screen(ctx context.Context, sessionID, language string, form eligibility.Form) ([]scheme.Scheme, error)
	Finalize(ctx context.Context, sessionID string, answers map[string]string) (*screening.Finalized, error)
}

// Options configures the HTTP server
type Options struct {
	Port         int
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// Server serves the screening pages
type Server struct {
	opts         Options
	screener     Screener
	pages        *template.Engine
	translations *i18n.Catalog
	health       *HealthHandler
	gatherer     prometheus.Gatherer
	logger       *zap.Logger
	httpServer   *http.Server
}

// New creates a new server. A nil gatherer disables /metrics.
func New(
	opts Options,
	screener Screener,
	pages *template.Engine,
	translations *i18n.Catalog,
	health *HealthHandler,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	return &Server{
		opts:         opts,
		screener:     screener,
		pages:        pages,
		translations: translations,
		health:       health,
		gatherer:     gatherer,
		logger:       logger,
	}
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/form", s.handleForm)
	r.Post("/results", s.handleResults)
	r.Post("/finalize", s.handleFinalize)

	if s.health != nil {
		s.health.Register(r)
	}
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("starting http server", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("stopping http server")
	return s.httpServer.Shutdown(ctx)
}
