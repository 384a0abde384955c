package ports

import (
	"context"
	"errors"

	"github.com/AchilleasB/doctors-portal/booking-service/internal/core/domain"
)

var ErrLockHeld = errors.New("booking lock held by another request")

// BookingLocker serializes booking submissions for the same key.
// Acquire returns ErrLockHeld when another request owns the key; the
// returned release func must be called once the insert has finished.
type BookingLocker interface {
	Acquire(ctx context.Context, key domain.BookingKey) (release func(), err error)
}
