package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

// MockBookingRepository keeps bookings in insertion order and enforces the
// (date, email, treatment) uniqueness the SQL schema enforces.
type MockBookingRepository struct {
	mu sync.RWMutex

	bookings []domain.Booking
	Events   []ports.BookingCreatedEvent

	FindByKeyCalls int
	CreateCalls    int

	FindError   error
	CreateError error
}

var _ ports.BookingRepository = (*MockBookingRepository)(nil)

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

func (m *MockBookingRepository) SeedBooking(b domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, b)
}

func (m *MockBookingRepository) filter(keep func(domain.Booking) bool) []domain.Booking {
	out := []domain.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *MockBookingRepository) FindByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	return m.filter(func(b domain.Booking) bool { return b.AppointmentDate == date }), nil
}

func (m *MockBookingRepository) FindByKey(ctx context.Context, key domain.BookingKey) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByKeyCalls++
	if m.FindError != nil {
		return nil, m.FindError
	}
	return m.filter(func(b domain.Booking) bool {
		return b.AppointmentDate == key.AppointmentDate &&
			b.Email == key.Email &&
			b.TreatmentName == key.TreatmentName
	}), nil
}

func (m *MockBookingRepository) FindByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	return m.filter(func(b domain.Booking) bool { return b.Email == email }), nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, b := range m.bookings {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockBookingRepository) Create(ctx context.Context, booking domain.Booking, event ports.BookingCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}

	for _, b := range m.bookings {
		if b.AppointmentDate == booking.AppointmentDate &&
			b.Email == booking.Email &&
			b.TreatmentName == booking.TreatmentName {
			return &domain.BookingConflict{AppointmentDate: booking.AppointmentDate}
		}
	}

	m.bookings = append(m.bookings, booking)
	m.Events = append(m.Events, event)
	return nil
}

// markPaid is used by MockPaymentRepository to mirror the SQL update.
func (m *MockBookingRepository) markPaid(id, transactionID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Paid = true
			m.bookings[i].TransactionID = transactionID
			return 1
		}
	}
	return 0
}

// MockPaymentRepository implements ports.PaymentRepository on top of a
// MockBookingRepository.
type MockPaymentRepository struct {
	mu sync.RWMutex

	bookings *MockBookingRepository
	Payments []domain.Payment
	Events   []ports.PaymentRecordedEvent

	// UpdatedBookings counts bookings flipped to paid.
	UpdatedBookings int64

	ReconcileError error
}

var _ ports.PaymentRepository = (*MockPaymentRepository)(nil)

func NewMockPaymentRepository(bookings *MockBookingRepository) *MockPaymentRepository {
	return &MockPaymentRepository{bookings: bookings}
}

func (m *MockPaymentRepository) Reconcile(ctx context.Context, payment domain.Payment, event ports.PaymentRecordedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReconcileError != nil {
		return m.ReconcileError
	}

	m.Payments = append(m.Payments, payment)
	m.Events = append(m.Events, event)
	if m.bookings != nil {
		m.UpdatedBookings += m.bookings.markPaid(payment.BookingID, payment.TransactionID)
	}
	return nil
}

func (m *MockPaymentRepository) GetPayments() []domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Payment, len(m.Payments))
	copy(out, m.Payments)
	return out
}
