package handler

import (
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DoctorHandler struct {
	doctors ports.DoctorService
	logger  *zap.Logger
}

func NewDoctorHandler(doctors ports.DoctorService, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, logger: logger}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) Add(w http.ResponseWriter, r *http.Request) {
	var doctor domain.Doctor
	if err := decodeJSON(w, r, &doctor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.doctors.Add(r.Context(), doctor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DoctorHandler) Remove(w http.ResponseWriter, r *http.Request) {
	result, err := h.doctors.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
