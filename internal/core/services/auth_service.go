package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const TokenLifetime = 30 * 24 * time.Hour

// AccessClaims is the payload of the bearer tokens this service issues.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo   ports.UserRepository
	privateKey *rsa.PrivateKey
	metrics    metrics.Recorder
	logger     *zap.Logger
	now        func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	userRepo ports.UserRepository,
	privateKey *rsa.PrivateKey,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		privateKey: privateKey,
		metrics:    recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// IssueToken signs a token for email. Only registered users get one; there
// is no password in this flow.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		s.metrics.RecordTokenIssue(false)
		return "", domain.ErrUserNotFound
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordTokenIssue(false)
			return "", err
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.metrics.RecordTokenIssue(true)
	s.logger.Debug("access token issued", zap.String("email", user.Email))
	return signed, nil
}
