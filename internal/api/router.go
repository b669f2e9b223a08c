// Package api exposes the booking desk over HTTP.
package api

import (
	"net/http"

	"bookingdesk/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Bookings    BookingService
	APIKeys     []string
	RateLimiter *RateLimiter
	Logger      *zerolog.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "api").Logger()

	h := Handlers{
		Bookings:  deps.Bookings,
		Validator: validator.NewValidator(),
		Logger:    &l,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(&l))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(deps.APIKeys))
		r.Use(deps.RateLimiter.Middleware)

		r.Post("/bookings", h.Register)
		r.Get("/bookings", h.List)
		r.Get("/bookings/counts", h.Counts)
		r.Get("/bookings/export.xlsx", h.Export)

		r.Route("/bookings/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/actions", h.Actions)
			r.Post("/approve", h.command(h.Bookings.ApproveBooking))
			r.Post("/reject", h.command(h.Bookings.RejectBooking))
			r.Post("/start", h.command(h.Bookings.StartService))
			r.Post("/complete", h.command(h.Bookings.CompleteService))
			r.Post("/reschedule", h.Reschedule)
		})
	})

	return r
}
