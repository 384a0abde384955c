package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

const bookingColumns = `id, appointment_date, treatment_name, patient, slot, email,
	phone, price, paid, transaction_id, created_at`

type BookingRepository struct {
	db *sql.DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID,
		&b.AppointmentDate,
		&b.TreatmentName,
		&b.Patient,
		&b.Slot,
		&b.Email,
		&b.Phone,
		&b.Price,
		&b.Paid,
		&b.TransactionID,
		&b.CreatedAt,
	)
	return b, err
}

func (r *BookingRepository) query(ctx context.Context, where string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE "+where+" ORDER BY created_at",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) FindByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	return r.query(ctx, "appointment_date = $1", date)
}

func (r *BookingRepository) FindByKey(ctx context.Context, key domain.BookingKey) ([]domain.Booking, error) {
	return r.query(ctx,
		"appointment_date = $1 AND email = $2 AND treatment_name = $3",
		key.AppointmentDate, key.Email, key.TreatmentName,
	)
}

func (r *BookingRepository) FindByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.query(ctx, "email = $1", email)
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = $1",
		id,
	)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, b domain.Booking, event ports.BookingCreatedEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, appointment_date, treatment_name, patient, slot, email,
			phone, price, paid, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID,
		b.AppointmentDate,
		b.TreatmentName,
		b.Patient,
		b.Slot,
		b.Email,
		b.Phone,
		b.Price,
		b.Paid,
		b.TransactionID,
		b.CreatedAt,
	)
	if isUniqueViolation(err) {
		return &domain.BookingConflict{AppointmentDate: b.AppointmentDate}
	}
	if err != nil {
		return err
	}

	if err := writeOutboxEvent(ctx, tx, ports.EventBookingCreated, event); err != nil {
		return err
	}

	return tx.Commit()
}
