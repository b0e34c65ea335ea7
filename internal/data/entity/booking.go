package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRefunded  BookingStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Booking struct {
	BaseNoDelete
	UserID         uuid.UUID     `db:"user_id"`
	EventID        uuid.UUID     `db:"event_id"`
	TicketTypeID   *uuid.UUID    `db:"ticket_type_id"`
	Quantity       int           `db:"quantity"`
	TotalAmount    float64       `db:"total_amount"`
	Currency       string        `db:"currency"`
	Status         BookingStatus `db:"status"`
	PaymentStatus  PaymentStatus `db:"payment_status"`
	IdempotencyKey *string       `db:"idempotency_key"`
}

// Cancellable reports whether the booking may still be cancelled.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
