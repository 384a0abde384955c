package repository

import (
	"context"
	"database/sql"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/ports"
)

type PaymentRepository struct {
	db *sql.DB
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Reconcile(ctx context.Context, p domain.Payment, event ports.PaymentRecordedEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO payments (id, booking_id, transaction_id, price, email, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		p.ID,
		p.BookingID,
		p.TransactionID,
		p.Price,
		p.Email,
		p.CreatedAt,
	)
	if err != nil {
		return err
	}

	// Matches zero rows when the booking is unknown; the payment stays.
	_, err = tx.ExecContext(ctx,
		"UPDATE bookings SET paid = TRUE, transaction_id = $2 WHERE id = $1",
		p.BookingID,
		p.TransactionID,
	)
	if err != nil {
		return err
	}

	if err := writeOutboxEvent(ctx, tx, ports.EventPaymentRecorded, event); err != nil {
		return err
	}

	return tx.Commit()
}
