package ports

import (
	"context"
)

const (
	EventBookingCreated  = "booking.created"
	EventPaymentRecorded = "payment.recorded"
)

type BookingCreatedEvent struct {
	BookingID       string `json:"bookingId"`
	Email           string `json:"email"`
	TreatmentName   string `json:"treatmentName"`
	AppointmentDate string `json:"appoinmentDate"`
	Slot            string `json:"slot"`
}

type PaymentRecordedEvent struct {
	PaymentID     string  `json:"paymentId"`
	BookingID     string  `json:"bookingId"`
	TransactionID string  `json:"transactionId"`
	Price         float64 `json:"price"`
	Email         string  `json:"email"`
}

// EventPublisher delivers an outbox event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
