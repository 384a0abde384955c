package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

// MockBookingLocker is an in-process ports.BookingLocker.
type MockBookingLocker struct {
	mu   sync.Mutex
	held map[string]bool

	AcquireError error
	Releases     int
}

var _ ports.BookingLocker = (*MockBookingLocker)(nil)

func NewMockBookingLocker() *MockBookingLocker {
	return &MockBookingLocker{held: make(map[string]bool)}
}

// Hold marks key as owned by some other request.
func (m *MockBookingLocker) Hold(key domain.BookingKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[key.String()] = true
}

func (m *MockBookingLocker) Acquire(ctx context.Context, key domain.BookingKey) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AcquireError != nil {
		return nil, m.AcquireError
	}
	k := key.String()
	if m.held[k] {
		return nil, ports.ErrLockHeld
	}
	m.held[k] = true

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, k)
		m.Releases++
	}, nil
}

// MockPaymentProcessor implements ports.PaymentProcessor.
type MockPaymentProcessor struct {
	mu sync.Mutex

	ClientSecret string
	Error        error

	Amounts    []int64
	Currencies []string
}

var _ ports.PaymentProcessor = (*MockPaymentProcessor)(nil)

func NewMockPaymentProcessor(secret string) *MockPaymentProcessor {
	return &MockPaymentProcessor{ClientSecret: secret}
}

func (m *MockPaymentProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Amounts = append(m.Amounts, amount)
	m.Currencies = append(m.Currencies, currency)
	if m.Error != nil {
		return "", m.Error
	}
	return m.ClientSecret, nil
}
