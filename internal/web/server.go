// Package web provides the HTTP/JSON API for homeview.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/homeview/internal/app"
	"github.com/evcraddock/homeview/internal/auth"
	"github.com/evcraddock/homeview/internal/logging"
)

// Options configures the server.
type Options struct {
	// ServeMetrics mounts /metrics on this router. Leave it off when metrics
	// have their own listener.
	ServeMetrics bool
	LoginRate    float64 // attempts per second per client IP, 0 disables
	LoginBurst   int
}

// Server is the API HTTP handler.
type Server struct {
	core    *app.Core
	limiter *auth.LoginLimiter
	router  chi.Router
}

// NewServer creates the API server for core.
func NewServer(core *app.Core, opts Options) *Server {
	s := &Server{
		core:    core,
		limiter: auth.NewLoginLimiter(opts.LoginRate, opts.LoginBurst),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logging.RequestLogger)
	r.Use(core.Metrics().Middleware)

	r.Get("/health", s.handleHealth)
	if opts.ServeMetrics {
		r.Handle("/metrics", core.Metrics().Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", s.apiSearch)
		r.Get("/properties/featured", s.apiFeatured)
		r.Get("/properties/{id}", s.apiGetProperty)
		r.Get("/properties/{id}/bookings", s.apiPropertyBookings)

		r.With(s.limiter.Middleware).Post("/session", s.apiLogin)
		r.Get("/session", s.apiCurrentSession)
		r.Delete("/session", s.apiLogout)
		r.Post("/users", s.apiRegister)
		r.Get("/users/{id}/bookings", s.apiUserBookings)

		r.Get("/bookings/{id}", s.apiGetBooking)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/bookings", s.apiCreateBooking)
			r.Post("/bookings/{id}/cancel", s.apiCancelBooking)
			r.Post("/bookings/{id}/confirm", s.apiConfirmBooking)
			r.Get("/dashboard", s.apiDashboard)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return auth.RequireSession(s.core.Sessions(), next)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
