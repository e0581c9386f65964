// Package httpapi serves the puzzle engine to a browser UI over JSON.
//
// A session is the seed triple {seed, daily, mode}. It is stored in SQLite
// and carried by the client as a signed cookie; every request regenerates the
// game from it. Ingredient compositions are never sent to the client except
// through the debug-only solution endpoint.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/roach88/brewlab/internal/session"
	"github.com/roach88/brewlab/internal/store"
)

// CookieName names the session cookie.
const CookieName = "brewlab_session"

// requestTimeout bounds handler time.
const requestTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Store  *store.Store
	Codec  *session.Codec
	Logger *slog.Logger
	// DailySalt keys daily seed derivation.
	DailySalt string
	// Debug enables GET /api/solution.
	Debug bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server bundles the router and its dependencies.
type Server struct {
	r      *chi.Mux
	store  *store.Store
	codec  *session.Codec
	logger *slog.Logger
	salt   string
	debug  bool
	now    func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("httpapi: store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("httpapi: token codec is required")
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  opts.Store,
		codec:  opts.Codec,
		logger: opts.Logger,
		salt:   opts.DailySalt,
		debug:  opts.Debug,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger(s.logger))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(requestTimeout))
	s.r.Use(jsonContentType)

	s.r.Get("/health", s.handleHealth)

	s.r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/session", s.handleGetSession)
			r.Delete("/session", s.handleDeleteSession)
			r.Get("/game", s.handleGame)
			r.Post("/brew", s.handleBrew)
			r.Post("/estimate", s.handleEstimate)
			r.Post("/check", s.handleCheck)
			if s.debug {
				r.Get("/solution", s.handleSolution)
			}
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})

	return s, nil
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
