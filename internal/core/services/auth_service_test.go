package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/test/mocks"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*AuthService, *rsa.PrivateKey, *mocks.MockUserRepository, *countingRecorder) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	users := mocks.NewMockUserRepository()
	users.SeedUser(&domain.User{ID: "u-1", Name: "Pat", Email: "pat@example.com"})
	rec := newCountingRecorder()
	return NewAuthService(users, key, rec, zap.NewNop()), key, users, rec
}

func TestAuthService_IssueToken(t *testing.T) {
	svc, key, _, rec := newAuthService(t)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	signed, err := svc.IssueToken(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var claims AccessClaims
	_, err = jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodRS256 {
			t.Errorf("expected RS256, got %v", token.Method.Alg())
		}
		return &key.PublicKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return issued.Add(time.Hour) }))
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}

	if claims.Email != "pat@example.com" {
		t.Errorf("expected email claim pat@example.com, got %q", claims.Email)
	}
	if !claims.IssuedAt.Time.Equal(issued) {
		t.Errorf("expected iat %v, got %v", issued, claims.IssuedAt.Time)
	}
	if want := issued.Add(30 * 24 * time.Hour); !claims.ExpiresAt.Time.Equal(want) {
		t.Errorf("expected exp %v, got %v", want, claims.ExpiresAt.Time)
	}
	if rec.tokens[true] != 1 {
		t.Errorf("expected granted metric, got %v", rec.tokens)
	}
}

func TestAuthService_IssueTokenUnknownUser(t *testing.T) {
	for _, email := range []string{"", "stranger@example.com"} {
		svc, _, users, rec := newAuthService(t)

		token, err := svc.IssueToken(context.Background(), email)
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("%q: expected ErrUserNotFound, got %v", email, err)
		}
		if token != "" {
			t.Errorf("%q: expected empty token, got %q", email, token)
		}
		if rec.tokens[false] != 1 {
			t.Errorf("%q: expected denied metric, got %v", email, rec.tokens)
		}
		if email == "" && len(users.FindByEmailCalls) != 0 {
			t.Errorf("blank email must not be looked up, got %v", users.FindByEmailCalls)
		}
	}
}

func TestAuthService_IssueTokenStoreError(t *testing.T) {
	svc, _, users, _ := newAuthService(t)
	users.FindByEmailError = errors.New("connection refused")

	_, err := svc.IssueToken(context.Background(), "pat@example.com")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected a store error, got %v", err)
	}
}
