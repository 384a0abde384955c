package handler

import (
	"errors"
	"net/http"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(auth ports.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, logger: logger}
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Token handles GET /jwt?email=. Unknown emails get 403 with an empty
// token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.authService.IssueToken(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusForbidden, TokenResponse{AccessToken: ""})
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}
