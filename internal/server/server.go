// Package server exposes a content.Provider over the REST contract the
// HTTP client speaks, recording results in the event store.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abhisek/braingym/internal/content"
	"github.com/abhisek/braingym/internal/logging"
	"github.com/abhisek/braingym/internal/store"
)

// Config holds the server's dependencies and limits.
type Config struct {
	Provider content.Provider
	Repo     store.EventRepo
	Logger   *slog.Logger
	Version  string

	// RateLimit is the per-client allowance of result posts per second.
	RateLimit float64
	Burst     int
}

// Server serves exercise content and accepts results.
type Server struct {
	provider content.Provider
	repo     store.EventRepo
	sink     *content.StoreSink
	logger   *slog.Logger
	version  string
	limiter  *clientLimiter
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Provider == nil {
		return nil, errors.New("server: provider is required")
	}
	if cfg.Repo == nil {
		return nil, errors.New("server: event repository is required")
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	return &Server{
		provider: cfg.Provider,
		repo:     cfg.Repo,
		sink:     content.NewStoreSink(cfg.Repo),
		logger:   logging.OrDiscard(cfg.Logger),
		version:  cfg.Version,
		limiter:  newClientLimiter(limit, max(cfg.Burst, 1)),
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get(content.PathHealth, s.health)
	r.Route("/api", func(r chi.Router) {
		r.Route("/exercises", func(r chi.Router) {
			r.Get("/arithmetic", s.arithmetic)
			r.Get("/reading", s.reading)
			r.Get("/stroop", s.stroop)
			r.Get("/memory-words", s.memory)
		})
		r.Post("/sessions", s.createSession)
		r.Get("/sessions/{id}", s.getSession)
		r.With(s.rateLimited).Post("/results", s.postResult)
	})
	return r
}

// Serve runs the server on ln until ctx is canceled, then shuts down
// gracefully within grace.
func (s *Server) Serve(ctx context.Context, ln net.Listener, grace time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("content server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		s.logger.Info("content server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, grace)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.LogAttrs(r.Context(), slog.LevelInfo, "http request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote", r.RemoteAddr),
		)
	})
}
