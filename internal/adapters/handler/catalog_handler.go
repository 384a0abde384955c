package handler

import (
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog ports.CatalogService
	logger  *zap.Logger
}

func NewCatalogHandler(catalog ports.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Availability handles GET /appointmentOptions?date=.
func (h *CatalogHandler) Availability(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalog.Availability(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *CatalogHandler) Specialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.catalog.Specialties(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, specialties)
}

type setPriceRequest struct {
	Price float64 `json:"price"`
}

func (h *CatalogHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.catalog.SetPrice(r.Context(), req.Price)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
