package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Payment is the immutable record of a completed transaction.
type Payment struct {
	ID            string    `json:"_id"`
	BookingID     string    `json:"bookingId"`
	TransactionID string    `json:"transactionId"`
	Price         float64   `json:"price"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentRequest struct {
	BookingID     string  `json:"bookingId"`
	TransactionID string  `json:"transactionId"`
	Price         float64 `json:"price"`
	Email         string  `json:"email"`
}

func (r PaymentRequest) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("%w: missing transactionId", ErrInvalidInput)
	}
	return nil
}

const PaymentCurrency = "usd"

// MinorUnits converts a price in major currency units to the integer
// amount expected by the payment processor.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
