package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AdminChecker reports whether the user with email holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	admins    AdminChecker
	logger    *zap.Logger
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, admins AdminChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		admins:    admins,
		logger:    logger,
	}
}

type contextKey string

const emailKey contextKey = "email"

// EmailFromContext returns the email claim of an authenticated request.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate requires a valid bearer token. A missing or malformed
// header is 401, a token that does not verify is 403.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			writeMessage(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		var claims tokenClaims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			m.logger.Debug("token rejected", zap.Error(err))
			writeMessage(w, http.StatusForbidden, "forbidden access")
			return
		}

		if claims.Email == "" {
			writeMessage(w, http.StatusForbidden, "forbidden access")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Email)))
	})
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := EmailFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusForbidden, "forbidden access")
			return
		}

		isAdmin, err := m.admins.IsAdmin(r.Context(), email)
		if err != nil {
			m.logger.Error("admin lookup failed", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !isAdmin {
			writeMessage(w, http.StatusForbidden, "forbidden access")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
