package handler

import (
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  ports.UserService
	logger *zap.Logger
}

func NewUserHandler(users ports.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// createUserRequest has no role field; roles are only granted through
// PromoteToAdmin.
type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type adminStatusResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.users.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := h.users.IsAdmin(r.Context(), chi.URLParam(r, "target"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, adminStatusResponse{IsAdmin: isAdmin})
}

func (h *UserHandler) PromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	result, err := h.users.PromoteToAdmin(r.Context(), chi.URLParam(r, "target"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
