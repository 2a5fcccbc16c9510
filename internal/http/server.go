// Package httpserver serves the booking backend contract over the in-memory
// catalog. It backs local development and the end-to-end tests of the
// client packages.
package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/moviebooking/internal/catalog"
	"github.com/Clark-Hu/moviebooking/internal/config"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Mock
	catalog *catalog.Catalog
	logger  *log.Logger
	now     func() time.Time
	router  chi.Router
	httpSrv *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithClock overrides the time source used to issue and verify tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Mock, cat *catalog.Catalog, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:     cfg,
		catalog: cat,
		logger:  logger,
		now:     time.Now,
		router:  r,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route(s.cfg.BasePath, func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Get("/all", s.handleListMovies)
		r.Get("/movies/search/{name}", s.handleSearchMovies)
		r.Get("/movies/{name}/reviews", s.handleMovieReviews)
		r.Get("/users/{username}/reviews", s.handleUserReviews)

		if s.cfg.HelpfulRequiresAuth {
			r.With(s.requireAuth).Put("/reviews/{id}/helpful", s.handleMarkHelpful)
		} else {
			r.Put("/reviews/{id}/helpful", s.handleMarkHelpful)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Put("/{name}/forgot", s.handleResetPassword)
			r.Post("/{name}/add", s.handleBookTickets)
			r.Post("/movies/{name}/reviews", s.handlePostReview)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Post("/addMovie", s.handleAddMovie)
				r.Put("/{name}/update", s.handleUpdateMovie)
				r.Delete("/{name}/delete", s.handleDeleteMovie)
				r.Get("/userTickets/{name}", s.handleBookedTickets)
				r.Put("/{name}/update/{ticketId}", s.handleUpdateTicketStatus)
			})
		})
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"screens": len(s.catalog.Movies()),
	})
}
