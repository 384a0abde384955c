// Package mocks provides in-memory implementations of the port interfaces
// so services and handlers can be tested without PostgreSQL, Redis,
// RabbitMQ or Stripe.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	mu sync.RWMutex

	users map[string]*domain.User // by id

	// Call tracking for verification
	FindByEmailCalls    []string
	CreateCalls         []domain.User
	PromoteToAdminCalls []string

	// Error injection for testing error scenarios
	FindByEmailError    error
	FindAllError        error
	CreateError         error
	PromoteToAdminError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// SeedUser adds a user for test setup.
func (m *MockUserRepository) SeedUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindAllError != nil {
		return nil, m.FindAllError
	}

	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, user)
	if m.CreateError != nil {
		return m.CreateError
	}

	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	m.users[user.ID] = &user
	return nil
}

func (m *MockUserRepository) PromoteToAdmin(ctx context.Context, id string) (*domain.MutationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PromoteToAdminCalls = append(m.PromoteToAdminCalls, id)
	if m.PromoteToAdminError != nil {
		return nil, m.PromoteToAdminError
	}

	u, ok := m.users[id]
	if !ok {
		m.users[id] = &domain.User{ID: id, Role: domain.RoleAdmin}
		return domain.Updated(0, 0, 1, id), nil
	}
	if u.Role.IsAdmin() {
		return domain.Updated(1, 0, 0, ""), nil
	}
	u.Role = domain.RoleAdmin
	return domain.Updated(1, 1, 0, ""), nil
}
