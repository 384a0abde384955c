package domain

import (
	"fmt"
	"strings"
	"time"
)

// Booking is one patient's reservation of a slot for a treatment on a day.
// The appoinmentDate spelling is part of the client contract.
type Booking struct {
	ID              string    `json:"_id"`
	AppointmentDate string    `json:"appoinmentDate"`
	TreatmentName   string    `json:"treatmentName"`
	Patient         string    `json:"patient"`
	Slot            string    `json:"slot"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Price           float64   `json:"price"`
	Paid            bool      `json:"paid"`
	TransactionID   string    `json:"transactionId,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingRequest struct {
	AppointmentDate string  `json:"appoinmentDate"`
	TreatmentName   string  `json:"treatmentName"`
	Patient         string  `json:"patient"`
	Slot            string  `json:"slot"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Price           float64 `json:"price"`
}

func (r BookingRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.AppointmentDate) == "" {
		missing = append(missing, "appoinmentDate")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.TreatmentName) == "" {
		missing = append(missing, "treatmentName")
	}
	if strings.TrimSpace(r.Slot) == "" {
		missing = append(missing, "slot")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// BookingKey identifies the (date, email, treatment) triple of which at
// most one booking may exist.
type BookingKey struct {
	AppointmentDate string
	Email           string
	TreatmentName   string
}

func (r BookingRequest) Key() BookingKey {
	return BookingKey{
		AppointmentDate: r.AppointmentDate,
		Email:           r.Email,
		TreatmentName:   r.TreatmentName,
	}
}

// String encodes the key with length-prefixed fields so that distinct keys
// never share an encoding, whatever characters the fields contain.
func (k BookingKey) String() string {
	return fmt.Sprintf("%d:%s|%d:%s|%d:%s",
		len(k.AppointmentDate), k.AppointmentDate,
		len(k.Email), k.Email,
		len(k.TreatmentName), k.TreatmentName,
	)
}

// BookingConflict is returned when a booking for the same key exists.
// It is a normal rejection, not a store failure.
type BookingConflict struct {
	AppointmentDate string
}

func (c *BookingConflict) Error() string {
	return fmt.Sprintf("you already have a booking on %s", c.AppointmentDate)
}
