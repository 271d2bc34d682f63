// Package httpapi serves the customization operations over HTTP.
//
// Routes mirror the browser client's API: configuration lookup and writes
// under /api/config, the chat flow under /api/chat, plus catalog, group,
// health and metrics endpoints. Every error is a JSON body of the form
// {"error": "...", "details": [...]} with the status chosen by
// errors.HTTPStatus.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mrz1836/customizer/internal/config"
	"github.com/mrz1836/customizer/internal/customize"
	"github.com/mrz1836/customizer/internal/domain"
	"github.com/mrz1836/customizer/internal/syncer"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Customizer is the set of operations the API exposes.
type Customizer interface {
	Load(ctx context.Context, params domain.ConfigParams) (*customize.LoadResult, error)
	CheckConfig(ctx context.Context, orgKey, moduleKey string) (bool, error)
	Summary(ctx context.Context, params domain.ConfigParams) (string, error)
	Chat(ctx context.Context, message string, params domain.ConfigParams, history ...domain.ChatMessage) (string, error)
	Finalize(ctx context.Context, history []domain.ChatMessage, params domain.ConfigParams) (*customize.FinalizeResult, error)
	Apply(ctx context.Context, params domain.ConfigParams, config, codesets string) (*customize.CommitInfo, error)
}

var _ Customizer = (*customize.Service)(nil)

// GroupLookup reports the sync group of a module.
type GroupLookup interface {
	Summary(params domain.ConfigParams) (syncer.Summary, bool)
}

var _ GroupLookup = (*syncer.Engine)(nil)

// Server routes HTTP requests to a Customizer.
type Server struct {
	svc    Customizer
	groups GroupLookup
	cfg    config.ServerConfig
	logger zerolog.Logger
	mux    *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGroups enables GET /api/groups/{moduleKey}.
func WithGroups(g GroupLookup) Option {
	return func(s *Server) { s.groups = g }
}

// New creates a Server and registers its routes.
func New(svc Customizer, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		cfg:    cfg,
		logger: zerolog.Nop(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/check-config", s.handleCheckConfig)
	s.mux.HandleFunc("POST /api/config", s.handleLoadConfig)
	s.mux.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/chat/summary", s.handleSummary)
	s.mux.HandleFunc("POST /api/chat/finalize", s.handleFinalize)
	s.mux.HandleFunc("POST /api/chat/confirm", s.handleConfirm)
	s.mux.HandleFunc("GET /api/modules", s.handleModules)
	s.mux.HandleFunc("GET /api/groups/{moduleKey}", s.handleGroup)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the routed handler wrapped in the request-ID, logging
// and metrics middleware.
func (s *Server) Handler() http.Handler {
	return requestID(s.logRequests(instrument(s.mux)))
}

// ListenAndServe serves on cfg.Addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.BodyTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("starting http server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
