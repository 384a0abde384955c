package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	bookingRepo ports.BookingRepository
	locker      ports.BookingLocker
	metrics     metrics.Recorder
	logger      *zap.Logger
}

var _ ports.BookingService = (*BookingService)(nil)

// NewBookingService builds the booking use cases. locker may be nil, in
// which case duplicates are caught by the store constraint only.
func NewBookingService(
	bookingRepo ports.BookingRepository,
	locker ports.BookingLocker,
	recorder metrics.Recorder,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		locker:      locker,
		metrics:     recorder,
		logger:      logger,
	}
}

// Book records a new booking unless the patient already holds one for the
// same treatment on the same date, in which case *domain.BookingConflict
// is returned.
func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.Key()
	conflict := &domain.BookingConflict{AppointmentDate: req.AppointmentDate}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, key)
		switch {
		case errors.Is(err, ports.ErrLockHeld):
			s.metrics.RecordBooking(metrics.BookingConflict)
			return nil, conflict
		case err != nil:
			s.logger.Warn("booking lock unavailable, relying on store constraint",
				zap.String("key", key.String()),
				zap.Error(err),
			)
		default:
			defer release()
		}
	}

	existing, err := s.bookingRepo.FindByKey(ctx, key)
	if err != nil {
		s.metrics.RecordBooking(metrics.BookingFailed)
		return nil, fmt.Errorf("find existing bookings: %w", err)
	}
	if len(existing) > 0 {
		s.metrics.RecordBooking(metrics.BookingConflict)
		return nil, conflict
	}

	booking := domain.Booking{
		ID:              uuid.NewString(),
		AppointmentDate: req.AppointmentDate,
		TreatmentName:   req.TreatmentName,
		Patient:         req.Patient,
		Slot:            req.Slot,
		Email:           req.Email,
		Phone:           req.Phone,
		Price:           req.Price,
		Paid:            false,
		CreatedAt:       time.Now().UTC(),
	}

	event := ports.BookingCreatedEvent{
		BookingID:       booking.ID,
		Email:           booking.Email,
		TreatmentName:   booking.TreatmentName,
		AppointmentDate: booking.AppointmentDate,
		Slot:            booking.Slot,
	}

	if err := s.bookingRepo.Create(ctx, booking, event); err != nil {
		var dup *domain.BookingConflict
		if errors.As(err, &dup) {
			s.metrics.RecordBooking(metrics.BookingConflict)
			return nil, dup
		}
		s.metrics.RecordBooking(metrics.BookingFailed)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.metrics.RecordBooking(metrics.BookingCreated)
	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("treatment", booking.TreatmentName),
		zap.String("date", booking.AppointmentDate),
		zap.String("slot", booking.Slot),
	)

	return &booking, nil
}

func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	bookings, err := s.bookingRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return booking, nil
}
