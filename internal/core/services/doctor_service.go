package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DoctorService struct {
	doctorRepo ports.DoctorRepository
	logger     *zap.Logger
}

var _ ports.DoctorService = (*DoctorService)(nil)

func NewDoctorService(doctorRepo ports.DoctorRepository, logger *zap.Logger) *DoctorService {
	return &DoctorService{
		doctorRepo: doctorRepo,
		logger:     logger,
	}
}

func (s *DoctorService) List(ctx context.Context) ([]domain.Doctor, error) {
	doctors, err := s.doctorRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *DoctorService) Add(ctx context.Context, doctor domain.Doctor) (*domain.MutationResult, error) {
	if strings.TrimSpace(doctor.Name) == "" {
		return nil, fmt.Errorf("%w: missing doctor name", domain.ErrInvalidInput)
	}

	doctor.ID = uuid.NewString()
	doctor.CreatedAt = time.Now().UTC()

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("add doctor: %w", err)
	}

	s.logger.Info("doctor added", zap.String("doctor_id", doctor.ID))
	return domain.Inserted(doctor.ID), nil
}

func (s *DoctorService) Remove(ctx context.Context, id string) (*domain.MutationResult, error) {
	n, err := s.doctorRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove doctor %s: %w", id, err)
	}
	if n > 0 {
		s.logger.Info("doctor removed", zap.String("doctor_id", id))
	}
	return domain.Deleted(n), nil
}
