// Package api serves the layout pipeline and the profile store over HTTP.
//
// Routes:
//
//	POST   /v1/layout               lay out a scene for a media item
//	GET    /v1/profiles             list overlay profiles
//	POST   /v1/profiles             create a profile
//	GET    /v1/profiles/{id}        fetch one profile
//	PUT    /v1/profiles/{id}/areas  replace a profile's blocked areas
//	DELETE /v1/profiles/{id}        delete a profile
//	GET    /healthz                 liveness and build information
//
// Errors are returned as {"error": message, "code": code} with a status
// derived from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/z9m/backdrop/pkg/pipeline"
	"github.com/z9m/backdrop/pkg/profile"
)

// Server timeouts.
const (
	ReadTimeout     = 15 * time.Second
	WriteTimeout    = 120 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second

	DefaultMaxBodyBytes = 4 << 20
)

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	runner       *pipeline.Runner
	profiles     profile.Store
	logger       *log.Logger
	assetTimeout time.Duration
	maxBody      int64
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithAssetTimeout bounds the image wait of each layout request.
func WithAssetTimeout(d time.Duration) Option {
	return func(s *Server) { s.assetTimeout = d }
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New returns a server over runner. Profile routes use the runner's store
// and answer 501 when it has none.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		profiles: runner.Profiles,
		logger:   logger,
		maxBody:  DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.listProfiles)
			r.Post("/", s.createProfile)
			r.Get("/{id}", s.getProfile)
			r.Put("/{id}/areas", s.updateAreas)
			r.Delete("/{id}", s.deleteProfile)
		})
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
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

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
