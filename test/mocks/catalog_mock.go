package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

type MockAppointmentOptionRepository struct {
	mu sync.RWMutex

	options []domain.AppointmentOption

	FindAllError  error
	SetPriceError error
}

var _ ports.AppointmentOptionRepository = (*MockAppointmentOptionRepository)(nil)

func NewMockAppointmentOptionRepository(options ...domain.AppointmentOption) *MockAppointmentOptionRepository {
	return &MockAppointmentOptionRepository{options: options}
}

func (m *MockAppointmentOptionRepository) FindAll(ctx context.Context) ([]domain.AppointmentOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindAllError != nil {
		return nil, m.FindAllError
	}
	out := make([]domain.AppointmentOption, len(m.options))
	for i, o := range m.options {
		o.Slots = append([]string(nil), o.Slots...)
		out[i] = o
	}
	return out, nil
}

func (m *MockAppointmentOptionRepository) FindSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindAllError != nil {
		return nil, m.FindAllError
	}
	out := make([]domain.Specialty, len(m.options))
	for i, o := range m.options {
		out[i] = domain.Specialty{ID: o.ID, Name: o.Name}
	}
	return out, nil
}

func (m *MockAppointmentOptionRepository) SetPrice(ctx context.Context, price float64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetPriceError != nil {
		return 0, m.SetPriceError
	}
	for i := range m.options {
		m.options[i].Price = price
	}
	return int64(len(m.options)), nil
}

type MockDoctorRepository struct {
	mu sync.RWMutex

	doctors []domain.Doctor

	CreateError error
}

var _ ports.DoctorRepository = (*MockDoctorRepository)(nil)

func NewMockDoctorRepository() *MockDoctorRepository {
	return &MockDoctorRepository{}
}

func (m *MockDoctorRepository) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Doctor, len(m.doctors))
	copy(out, m.doctors)
	return out, nil
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor domain.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	m.doctors = append(m.doctors, doctor)
	return nil
}

func (m *MockDoctorRepository) Delete(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.doctors {
		if d.ID == id {
			m.doctors = append(m.doctors[:i], m.doctors[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
