package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler builds the router.
// Middleware order: RequestID → RealIP → request log → Recoverer → CORS → body limit.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(newCORSHandler(s.config.CORSOrigins))
	r.Use(newMaxBodySizeHandler(s.config.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", handleHealth)
	r.Post("/trip", s.handleLogTrip)
	r.Get("/trips", s.handleListTrips)
	if s.hub != nil {
		r.Method(http.MethodGet, "/trips/feed", s.hub)
	}

	return r
}
