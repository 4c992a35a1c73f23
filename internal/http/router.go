package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"github.com/robertarktes/ticketing-platform/internal/rateLimit"
	"github.com/robertarktes/ticketing-platform/internal/session"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, sessions *session.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(SessionMiddleware(sessions, logger))
	r.Use(RateLimitMiddleware(rl, h.cfg.UserRatePerMin, h.cfg.IPRatePerMin))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/session", h.Session)
		r.With(RequireAuth(logger)).Post("/logout", h.Logout)
	})

	r.Get("/api/events", h.ListUpcomingEvents)

	r.Route("/api/organizer/events", func(r chi.Router) {
		r.Use(RequireRole(domain.RoleOrganizer, logger))
		r.Get("/", h.ListOrganizerEvents)
		r.Post("/", h.CreateEvent)
		r.Get("/{id}", h.GetOrganizerEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
		r.Post("/{id}/cancel", h.CancelEvent)
		r.Get("/{id}/available-seats", h.AvailableSeats)
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Get("/", h.ListTickets)
		r.With(RequireRole(domain.RoleOrganizer, logger)).Post("/", h.CreateTicket)
		r.With(RequireRole(domain.RoleOrganizer, logger)).Patch("/{id}", h.UpdateTicket)
		r.With(RequireRole(domain.RoleOrganizer, logger)).Delete("/{id}", h.DeleteTicket)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(RequireAuth(logger))
		r.Post("/", h.PlaceOrder)
		r.Get("/{id}", h.GetOrder)
	})

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
