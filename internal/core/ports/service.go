package ports

import (
	"context"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
)

type CatalogService interface {
	Availability(ctx context.Context, date string) ([]domain.AppointmentOption, error)
	Specialties(ctx context.Context) ([]domain.Specialty, error)
	SetPrice(ctx context.Context, price float64) (*domain.MutationResult, error)
}

type BookingService interface {
	Book(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
}

type PaymentService interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
	Reconcile(ctx context.Context, req domain.PaymentRequest) (*domain.MutationResult, error)
}

type AuthService interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

type UserService interface {
	Create(ctx context.Context, name, email string) (*domain.MutationResult, error)
	List(ctx context.Context) ([]domain.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	PromoteToAdmin(ctx context.Context, id string) (*domain.MutationResult, error)
}

type DoctorService interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	Add(ctx context.Context, doctor domain.Doctor) (*domain.MutationResult, error)
	Remove(ctx context.Context, id string) (*domain.MutationResult, error)
}
