package ports

import (
	"context"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
)

type AppointmentOptionRepository interface {
	FindAll(ctx context.Context) ([]domain.AppointmentOption, error)
	FindSpecialties(ctx context.Context) ([]domain.Specialty, error)
	SetPrice(ctx context.Context, price float64) (int64, error)
}

type BookingRepository interface {
	FindByDate(ctx context.Context, date string) ([]domain.Booking, error)
	FindByKey(ctx context.Context, key domain.BookingKey) ([]domain.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// Create stores the booking and its booking.created event atomically.
	// A duplicate key is reported as *domain.BookingConflict.
	Create(ctx context.Context, booking domain.Booking, event BookingCreatedEvent) error
}

type PaymentRepository interface {
	// Reconcile stores the payment and marks its booking paid in one
	// transaction. A missing booking is not an error.
	Reconcile(ctx context.Context, payment domain.Payment, event PaymentRecordedEvent) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) error
	// PromoteToAdmin sets the admin role on the user with id, creating the
	// record when it does not exist.
	PromoteToAdmin(ctx context.Context, id string) (*domain.MutationResult, error)
}

type DoctorRepository interface {
	FindAll(ctx context.Context) ([]domain.Doctor, error)
	Create(ctx context.Context, doctor domain.Doctor) error
	Delete(ctx context.Context, id string) (int64, error)
}
