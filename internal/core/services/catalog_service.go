package services

import (
	"context"
	"fmt"
	"math"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"go.uber.org/zap"
)

type CatalogService struct {
	optionRepo  ports.AppointmentOptionRepository
	bookingRepo ports.BookingRepository
	logger      *zap.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(
	optionRepo ports.AppointmentOptionRepository,
	bookingRepo ports.BookingRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		optionRepo:  optionRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Availability lists the catalog with the slots still free on date.
// Without a date nothing is subtracted and the full catalog is returned.
func (s *CatalogService) Availability(ctx context.Context, date string) ([]domain.AppointmentOption, error) {
	options, err := s.optionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointment options: %w", err)
	}
	if date == "" {
		return options, nil
	}

	bookings, err := s.bookingRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s: %w", date, err)
	}

	s.logger.Debug("computing availability",
		zap.String("date", date),
		zap.Int("options", len(options)),
		zap.Int("bookings", len(bookings)),
	)

	return domain.ComputeAvailability(date, options, bookings), nil
}

func (s *CatalogService) Specialties(ctx context.Context) ([]domain.Specialty, error) {
	specialties, err := s.optionRepo.FindSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("load specialties: %w", err)
	}
	return specialties, nil
}

// SetPrice applies one price to every option in the catalog.
func (s *CatalogService) SetPrice(ctx context.Context, price float64) (*domain.MutationResult, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}

	n, err := s.optionRepo.SetPrice(ctx, price)
	if err != nil {
		return nil, fmt.Errorf("set catalog price: %w", err)
	}

	s.logger.Info("catalog price updated", zap.Float64("price", price), zap.Int64("options", n))
	return domain.Updated(n, n, 0, ""), nil
}
