package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo ports.UserRepository
	logger   *zap.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(userRepo ports.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create stores a new unprivileged profile. A second profile for the same
// email is rejected with an unacknowledged result rather than an error.
func (s *UserService) Create(ctx context.Context, name, email string) (*domain.MutationResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: missing email", domain.ErrInvalidInput)
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      domain.RoleUnprivileged,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return domain.Rejected("user already exists"), nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID))
	return domain.Inserted(user.ID), nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.Role.IsAdmin(), nil
}

func (s *UserService) PromoteToAdmin(ctx context.Context, id string) (*domain.MutationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidInput)
	}

	result, err := s.userRepo.PromoteToAdmin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("promote user %s: %w", id, err)
	}

	s.logger.Info("user promoted to admin", zap.String("user_id", id))
	return result, nil
}
