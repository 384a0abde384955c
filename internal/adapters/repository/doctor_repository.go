package repository

import (
	"context"
	"database/sql"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

type DoctorRepository struct {
	db *sql.DB
}

var _ ports.DoctorRepository = (*DoctorRepository)(nil)

func NewDoctorRepository(db *sql.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) FindAll(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, email, specialty, image, created_at FROM doctors ORDER BY created_at",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := []domain.Doctor{}
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Specialty, &d.Image, &d.CreatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *DoctorRepository) Create(ctx context.Context, d domain.Doctor) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO doctors (id, name, email, specialty, image, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		d.ID,
		d.Name,
		d.Email,
		d.Specialty,
		d.Image,
		d.CreatedAt,
	)
	return err
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM doctors WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
