package repository

import (
	"context"
	"database/sql"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
	"github.com/lib/pq"
)

type AppointmentOptionRepository struct {
	db *sql.DB
}

var _ ports.AppointmentOptionRepository = (*AppointmentOptionRepository)(nil)

func NewAppointmentOptionRepository(db *sql.DB) *AppointmentOptionRepository {
	return &AppointmentOptionRepository{db: db}
}

func (r *AppointmentOptionRepository) FindAll(ctx context.Context) ([]domain.AppointmentOption, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, slots, price FROM appointment_options ORDER BY created_at, name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []domain.AppointmentOption{}
	for rows.Next() {
		var o domain.AppointmentOption
		if err := rows.Scan(&o.ID, &o.Name, pq.Array(&o.Slots), &o.Price); err != nil {
			return nil, err
		}
		if o.Slots == nil {
			o.Slots = []string{}
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (r *AppointmentOptionRepository) FindSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM appointment_options ORDER BY created_at, name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	specialties := []domain.Specialty{}
	for rows.Next() {
		var s domain.Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		specialties = append(specialties, s)
	}
	return specialties, rows.Err()
}

func (r *AppointmentOptionRepository) SetPrice(ctx context.Context, price float64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE appointment_options SET price = $1", price)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
