package handler

import (
	"errors"
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/adapters/middleware"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookings ports.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings ports.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// Create handles POST /booking. A duplicate is answered with 200 and an
// unacknowledged result, which is what the web client checks for.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	booking, err := h.bookings.Book(r.Context(), req)
	if err != nil {
		var conflict *domain.BookingConflict
		if errors.As(err, &conflict) {
			writeJSON(w, http.StatusOK, domain.Rejected(conflict.Error()))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.Inserted(booking.ID))
}

// ListByEmail handles GET /bookings?email=. Callers may only list their
// own bookings.
func (h *BookingHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	claimed, ok := middleware.EmailFromContext(r.Context())
	if !ok || email != claimed {
		writeMessage(w, http.StatusForbidden, "forbidden access")
		return
	}

	bookings, err := h.bookings.ListByEmail(r.Context(), email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
