// package server contains middleware & handlers for the widget web service
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/shared"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the widget service.
// Implementations handle specific endpoints (now-playing, volume, auth).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Server wires the widget routes into a [BasicRouter] and runs the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *BasicRouter
	logger     *log.Logger
}

// NewServer creates a Server with logging and rate-limit middleware applied
// and all widget routes registered.
func NewServer(conf shared.ServerConfig, handler *WidgetHandler, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(
		RequestLogger(logger),
		RateLimit(rate.NewLimiter(rate.Limit(10), 30)),
	)

	router.Handle(http.MethodGet, "/api/spotify", http.HandlerFunc(handler.NowPlaying))
	router.Handle(http.MethodGet, "/api/spotify/volume", http.HandlerFunc(handler.VolumeRead))
	router.Handle(http.MethodPut, "/api/spotify/volume", http.HandlerFunc(handler.VolumeSet))
	router.Handle(http.MethodGet, "/api/spotify/login", http.HandlerFunc(handler.Login))
	router.Handle(http.MethodGet, "/api/spotify/callback", http.HandlerFunc(handler.Callback))
	router.Handle(http.MethodPost, "/api/spotify/logout", http.HandlerFunc(handler.LogoutPost))
	router.Handle(http.MethodGet, "/api/spotify/logout", http.HandlerFunc(handler.LogoutGet))
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(handler.Health))

	return &Server{
		httpServer: &http.Server{
			Addr:    conf.Addr(),
			Handler: router,
		},
		router: router,
		logger: logger,
	}
}

// Router returns the underlying router, primarily for tests.
func (s *Server) Router() *BasicRouter {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting widget server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
