package handler

import (
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const banner = "doctor-portal server is running"

type RouterDeps struct {
	Logger             *zap.Logger
	Metrics            metrics.Recorder
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	Auth               *middleware.AuthMiddleware

	CatalogService ports.CatalogService
	BookingService ports.BookingService
	PaymentService ports.PaymentService
	AuthService    ports.AuthService
	UserService    ports.UserService
	DoctorService  ports.DoctorService

	Health *HealthHandler
}

// NewRouter wires every endpoint. Middleware order is
// RequestID, Logging, Recovery, CORS, so recovered panics are still logged
// and counted.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(deps.Logger, deps.Metrics))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORSMiddleware(deps.CORSAllowedOrigins))

	catalogHandler := NewCatalogHandler(deps.CatalogService, deps.Logger)
	bookingHandler := NewBookingHandler(deps.BookingService, deps.Logger)
	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	paymentHandler := NewPaymentHandler(deps.PaymentService, deps.Logger)
	userHandler := NewUserHandler(deps.UserService, deps.Logger)
	doctorHandler := NewDoctorHandler(deps.DoctorService, deps.Logger)

	limited := func(h http.HandlerFunc) http.Handler {
		if deps.RateLimiter == nil {
			return h
		}
		return deps.RateLimiter.Middleware(h)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(banner))
	})

	if deps.Health != nil {
		r.Get("/health", deps.Health.Health)
		r.Get("/health/live", deps.Health.Live)
		r.Get("/health/ready", deps.Health.Ready)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/appointmentOptions", catalogHandler.Availability)
	r.Get("/appointmentSpecialty", catalogHandler.Specialties)

	r.Method(http.MethodPost, "/booking", limited(bookingHandler.Create))
	r.Get("/bookings/{id}", bookingHandler.Get)
	r.With(deps.Auth.Authenticate).Get("/bookings", bookingHandler.ListByEmail)

	r.Method(http.MethodGet, "/jwt", limited(authHandler.Token))

	r.Post("/create-payment-intent", paymentHandler.CreateIntent)
	r.Post("/payments", paymentHandler.Record)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		// {target} is an email for GET and a user id for PUT
		r.Route("/admin/{target}", func(r chi.Router) {
			r.Get("/", userHandler.AdminStatus)
			r.With(deps.Auth.Authenticate, deps.Auth.RequireAdmin).Put("/", userHandler.PromoteToAdmin)
		})
	})

	// admin only
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.Auth.RequireAdmin)

		r.Put("/appointmentOptions/price", catalogHandler.SetPrice)

		r.Route("/doctors", func(r chi.Router) {
			r.Get("/", doctorHandler.List)
			r.Post("/", doctorHandler.Add)
			r.Delete("/{id}", doctorHandler.Remove)
		})
	})

	return r
}
