// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout    lay out the tables and relationships in the body
//	GET  /v1/profile   the heuristics profile the server runs with
//	GET  /healthz      liveness and build information
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with 400
// for input errors and 500 otherwise.
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tmdlayout/pkg/observability"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	shutdownTimeout     = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	// Options are the base options of every request. The canvas may be
	// overridden per request.
	Options      pipeline.Options
	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server serves the layout API.
type Server struct {
	addr    string
	runner  *pipeline.Runner
	opts    pipeline.Options
	maxBody int64
	logger  *log.Logger
}

// New returns a server for cfg. The base options are validated here so
// that a bad profile fails at startup rather than on the first request.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Options.Logger == nil {
		cfg.Options.Logger = cfg.Logger
	}
	if err := cfg.Options.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("server options: %w", err)
	}
	return &Server{
		addr:    cfg.Addr,
		runner:  cfg.Runner,
		opts:    cfg.Options,
		maxBody: cfg.MaxBodyBytes,
		logger:  cfg.Logger,
	}, nil
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.observe,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/profile", s.handleProfile)
	})
	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving layout API", "addr", ln.Addr().String())

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down layout API")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
